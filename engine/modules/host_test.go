package modules

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type fakeState struct {
	calls []string
}

type fakeLibrary struct {
	content string
	opener  *fakeOpener
	entry   Entry[*fakeState]
}

func (l *fakeLibrary) Resolve(prefix string) Entry[*fakeState] { return l.entry }

func (l *fakeLibrary) Close() error {
	l.opener.closed = append(l.opener.closed, l.content)
	return nil
}

// fakeOpener builds a library whose hooks log "<hook>:<file content>".
type fakeOpener struct {
	opened  []string
	closed  []string
	failing bool
	// when set, the update hook of every library returns this error.
	updateErr error
	noUpdate  bool
}

func (o *fakeOpener) Open(path string) (Library[*fakeState], error) {
	if o.failing {
		return nil, errors.New("bad library")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(string(data))
	o.opened = append(o.opened, filepath.Base(path))

	lib := &fakeLibrary{content: content, opener: o}
	lib.entry.Load = func(s *fakeState) error {
		s.calls = append(s.calls, "load:"+content)
		return nil
	}
	if !o.noUpdate {
		lib.entry.Update = func(s *fakeState, d time.Duration) error {
			s.calls = append(s.calls, "update:"+content)
			return o.updateErr
		}
	}
	lib.entry.Unload = func(s *fakeState) error {
		s.calls = append(s.calls, "unload:"+content)
		return nil
	}
	return lib, nil
}

func writeModule(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func newTestHost(t *testing.T, opener *fakeOpener) *Host[*fakeState] {
	t.Helper()
	h, err := NewHost[*fakeState](opener, Config{StagingDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestHotSwap(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libm.so")
	t0 := time.Now().Add(-time.Hour)
	writeModule(t, src, "v1", t0)

	opener := &fakeOpener{}
	host := newTestHost(t, opener)
	state := &fakeState{}

	if err := host.Register("m", src, state); err != nil {
		t.Fatal(err)
	}
	host.CheckAll(state)
	host.UpdateAll(state, time.Millisecond)

	writeModule(t, src, "v2", t0.Add(time.Minute))
	if err := host.CheckAll(state); err != nil {
		t.Fatal(err)
	}
	host.UpdateAll(state, time.Millisecond)

	want := []string{"load:v1", "update:v1", "unload:v1", "load:v2", "update:v2"}
	if !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
	if want := []string{"m_1.so", "m_2.so"}; !reflect.DeepEqual(opener.opened, want) {
		t.Fatalf("staged copies\nhave %v\nwant %v", opener.opened, want)
	}
	if want := []string{"v1"}; !reflect.DeepEqual(opener.closed, want) {
		t.Fatalf("closed\nhave %v\nwant %v", opener.closed, want)
	}
	rec, _ := host.Module("m")
	if rec.Version() != 2 || rec.Staged() != filepath.Join(host.StagingDir(), "m_2.so") {
		t.Fatalf("record\nhave version=%d staged=%s", rec.Version(), rec.Staged())
	}
	if _, err := os.Stat(filepath.Join(host.StagingDir(), "m_1.so")); !os.IsNotExist(err) {
		t.Fatal("retired staged copy was left behind")
	}
}

func TestUnchangedSourceIsNotReloaded(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libm.so")
	writeModule(t, src, "v1", time.Now().Add(-time.Hour))

	opener := &fakeOpener{}
	host := newTestHost(t, opener)
	state := &fakeState{}
	host.Register("m", src, state)
	for i := 0; i < 3; i++ {
		host.CheckAll(state)
	}
	if len(opener.opened) != 1 {
		t.Fatalf("opened %d times, want 1", len(opener.opened))
	}
}

func TestLoadFailureKeepsOldVersion(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libm.so")
	t0 := time.Now().Add(-time.Hour)
	writeModule(t, src, "v1", t0)

	opener := &fakeOpener{}
	host := newTestHost(t, opener)
	state := &fakeState{}
	host.Register("m", src, state)

	writeModule(t, src, "v2", t0.Add(time.Minute))
	opener.failing = true
	if err := host.CheckAll(state); !errors.Is(err, ErrLoadFailure) {
		t.Fatalf("CheckAll\nhave %v\nwant %v", err, ErrLoadFailure)
	}
	host.UpdateAll(state, 0)

	// retried on the next check because the timestamp was not advanced
	opener.failing = false
	if err := host.CheckAll(state); err != nil {
		t.Fatal(err)
	}
	want := []string{"load:v1", "update:v1", "unload:v1", "load:v2"}
	if !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
	if rec, _ := host.Module("m"); rec.Version() != 2 {
		t.Fatalf("version\nhave %d\nwant 2", rec.Version())
	}
}

func TestRemovedSourceUnloads(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libm.so")
	t0 := time.Now().Add(-time.Hour)
	writeModule(t, src, "v1", t0)

	host := newTestHost(t, &fakeOpener{})
	state := &fakeState{}
	host.Register("m", src, state)

	os.Remove(src)
	if err := host.CheckAll(state); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CheckAll\nhave %v\nwant %v", err, ErrNotFound)
	}
	if err := host.CheckAll(state); err != nil {
		t.Fatalf("a missing source should only be reported once, got %v", err)
	}
	host.UpdateAll(state, 0)

	writeModule(t, src, "v2", t0)
	host.CheckAll(state)
	want := []string{"load:v1", "unload:v1", "load:v2"}
	if !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
}

func TestRegisterMissingSource(t *testing.T) {
	host := newTestHost(t, &fakeOpener{})
	err := host.Register("ghost", filepath.Join(t.TempDir(), "nope.so"), &fakeState{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Register\nhave %v\nwant %v", err, ErrNotFound)
	}
	if err := host.Register("ghost", "other.so", &fakeState{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register\nhave %v\nwant %v", err, ErrAlreadyRegistered)
	}
}

func TestUpdateOrderAndShutdownOrder(t *testing.T) {
	dir := t.TempDir()
	t0 := time.Now().Add(-time.Hour)
	host := newTestHost(t, &fakeOpener{})
	state := &fakeState{}
	for _, name := range []string{"a", "b", "c"} {
		src := filepath.Join(dir, name+".so")
		writeModule(t, src, name, t0)
		if err := host.Register(name, src, state); err != nil {
			t.Fatal(err)
		}
	}
	state.calls = nil
	host.UpdateAll(state, 0)
	if err := host.Shutdown(state); err != nil {
		t.Fatal(err)
	}
	want := []string{"update:a", "update:b", "update:c", "unload:c", "unload:b", "unload:a"}
	if !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
	if err := host.Shutdown(state); err != nil {
		t.Fatal("second Shutdown should be a no-op")
	}
}

func TestMissingSymbolSkipsDispatch(t *testing.T) {
	src := filepath.Join(t.TempDir(), "libm.so")
	writeModule(t, src, "v1", time.Now().Add(-time.Hour))
	host := newTestHost(t, &fakeOpener{noUpdate: true})
	state := &fakeState{}
	host.Register("m", src, state)

	host.UpdateAll(state, 0)
	host.UpdateAll(state, 0)
	rec, _ := host.Module("m")
	if !rec.Loaded() {
		t.Fatal("module unloaded because of a missing symbol")
	}
	if want := []string{"load:v1"}; !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
}

func TestRepeatedFailuresQuarantine(t *testing.T) {
	src := filepath.Join(t.TempDir(), "libm.so")
	t0 := time.Now().Add(-time.Hour)
	writeModule(t, src, "v1", t0)
	opener := &fakeOpener{updateErr: errors.New("boom")}
	host, err := NewHost[*fakeState](opener, Config{StagingDir: t.TempDir(), MaxFailures: 2})
	if err != nil {
		t.Fatal(err)
	}
	state := &fakeState{}
	host.Register("m", src, state)

	host.UpdateAll(state, 0)
	host.UpdateAll(state, 0)
	host.CheckAll(state)
	host.UpdateAll(state, 0)

	rec, _ := host.Module("m")
	if rec.Loaded() || !rec.Quarantined() {
		t.Fatalf("record\nhave loaded=%v quarantined=%v\nwant loaded=false quarantined=true", rec.Loaded(), rec.Quarantined())
	}
	want := []string{"load:v1", "update:v1", "update:v1", "unload:v1"}
	if !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}

	opener.updateErr = nil
	writeModule(t, src, "v2", t0.Add(time.Minute))
	host.CheckAll(state)
	if !rec.Loaded() || rec.Quarantined() || rec.Version() != 2 {
		t.Fatal("changed file did not lift the quarantine")
	}
}

func TestPanicIsContained(t *testing.T) {
	host := newTestHost(t, &fakeOpener{})
	state := &fakeState{}
	lib := NewStaticLibrary(
		func(*fakeState) error { return nil },
		func(*fakeState, time.Duration) error { panic("module bug") },
		func(s *fakeState) error { s.calls = append(s.calls, "unload:static"); return nil },
	)
	if err := host.RegisterStatic("s", lib, state); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < DefaultMaxFailures; i++ {
		host.UpdateAll(state, 0)
	}
	rec, _ := host.Module("s")
	if !rec.Quarantined() || !lib.closed {
		t.Fatal("panicking static module was not quarantined")
	}
	if want := []string{"unload:static"}; !reflect.DeepEqual(state.calls, want) {
		t.Fatalf("calls\nhave %v\nwant %v", state.calls, want)
	}
	// static modules are never polled
	if err := host.CheckAll(state); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherMarksChanges(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libm.so")
	t0 := time.Now().Add(-time.Hour)
	writeModule(t, src, "v1", t0)

	opener := &fakeOpener{}
	host, err := NewHost[*fakeState](opener, Config{StagingDir: t.TempDir(), Watch: true})
	if err != nil {
		t.Fatal(err)
	}
	defer host.Shutdown(&fakeState{})
	state := &fakeState{}
	if err := host.Register("m", src, state); err != nil {
		t.Fatal(err)
	}

	writeModule(t, src, "v2", t0.Add(time.Minute))
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		host.CheckAll(state)
		if rec, _ := host.Module("m"); rec.Version() == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("watcher did not report the change")
}

func TestDefaultStagingDirIsRemoved(t *testing.T) {
	host, err := NewHost[*fakeState](&fakeOpener{}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := host.StagingDir()
	if !strings.HasPrefix(filepath.Base(dir), "anima-shell-") {
		t.Fatalf("staging dir %s", dir)
	}
	if err := host.Shutdown(&fakeState{}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("staging dir survived shutdown")
	}
}
