package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// waitUpdate polls Update until n callbacks ran or the deadline passes.
func waitUpdate(t *testing.T, update func() int, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	got := 0
	for got < n {
		if time.Now().After(deadline) {
			t.Fatalf("callbacks\nhave %d\nwant %d", got, n)
		}
		got += update()
		time.Sleep(time.Millisecond)
	}
}

func TestJobSystemRunsCallbacksOnUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer js.Shutdown()

	sum := 0
	var failures []error
	boom := errors.New("boom")
	for i := 1; i <= 4; i++ {
		js.Submit(JobTask{
			Run:        func() (interface{}, error) { return i, nil },
			OnComplete: func(r interface{}) { sum += r.(int) },
		})
	}
	js.Submit(JobTask{
		Run:       func() (interface{}, error) { return nil, boom },
		OnFailure: func(err error) { failures = append(failures, err) },
	})
	js.Submit(JobTask{
		Run:       func() (interface{}, error) { panic("bad job") },
		OnFailure: func(err error) { failures = append(failures, err) },
	})

	waitUpdate(t, js.Update, 6)
	if sum != 10 {
		t.Fatalf("sum\nhave %d\nwant 10", sum)
	}
	if len(failures) != 2 || !errors.Is(failures[0], boom) && !errors.Is(failures[1], boom) {
		t.Fatalf("failures\nhave %v", failures)
	}
}

func TestJobSystemRejectsAfterShutdown(t *testing.T) {
	if _, err := NewJobSystem(0, 1); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("zero workers\nhave %v\nwant %v", err, ErrNoWorkers)
	}
	if _, err := NewJobSystem(1, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("negative queue\nhave %v\nwant %v", err, ErrNegativeChannelSize)
	}
	js, _ := NewJobSystem(1, 0)
	js.Shutdown()
	if err := js.Submit(JobTask{Run: func() (interface{}, error) { return nil, nil }}); !errors.Is(err, ErrJobSystemClosed) {
		t.Fatalf("submit after shutdown\nhave %v\nwant %v", err, ErrJobSystemClosed)
	}
	if err := js.Shutdown(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadAsync(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(triangle), 0o644); err != nil {
		t.Fatal(err)
	}
	am := newManager(t, dir)

	var loaded *metadata.Resource
	var missing error
	am.LoadAsync("tri.obj", metadata.ResourceTypeModel, nil, func(r *metadata.Resource, err error) {
		if err != nil {
			t.Errorf("tri.obj: %v", err)
		}
		loaded = r
	})
	am.LoadAsync("nope.obj", metadata.ResourceTypeModel, nil, func(_ *metadata.Resource, err error) {
		missing = err
	})
	waitUpdate(t, am.Update, 2)

	if loaded == nil || loaded.Type != metadata.ResourceTypeModel {
		t.Fatalf("async model\nhave %+v", loaded)
	}
	if missing == nil {
		t.Fatal("missing model loaded without error")
	}
	if !am.Cached("tri.obj") {
		t.Fatal("async load did not populate the cache")
	}
}
