package modules

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// DefaultMaxFailures is the number of consecutive failing calls after which a
// module version is unloaded and quarantined.
const DefaultMaxFailures = 5

type Config struct {
	// StagingDir receives the versioned copies. Defaults to a fresh session
	// directory under the system temp dir.
	StagingDir string
	// Watch enables fsnotify change detection. Without it every check stats
	// the source.
	Watch       bool
	MaxFailures int
}

// Host loads, hot-swaps and ticks modules against a shared state S.
type Host[S any] struct {
	opener  Opener[S]
	config  Config
	staging string
	ownDir  bool

	records []*Record[S]
	byName  map[string]*Record[S]

	watcher *watcher
	closed  bool
	mu      sync.Mutex
}

func NewHost[S any](opener Opener[S], config Config) (*Host[S], error) {
	if config.MaxFailures <= 0 {
		config.MaxFailures = DefaultMaxFailures
	}
	h := &Host[S]{
		opener: opener,
		config: config,
		byName: make(map[string]*Record[S]),
	}

	h.staging = config.StagingDir
	if h.staging == "" {
		h.staging = filepath.Join(os.TempDir(), "anima-shell-"+uuid.NewString())
		h.ownDir = true
	}
	if err := os.MkdirAll(h.staging, 0o755); err != nil {
		return nil, fmt.Errorf("could not create staging dir %s: %w", h.staging, err)
	}

	if config.Watch {
		w, err := newWatcher()
		if err != nil {
			return nil, err
		}
		h.watcher = w
	}
	return h, nil
}

// StagingDir returns the directory holding the versioned copies.
func (h *Host[S]) StagingDir() string {
	return h.staging
}

// Register adds a module backed by the shared library at path and runs the
// initial check, which loads it and calls its load hook.
func (h *Host[S]) Register(name, path string, state S) error {
	rec, err := h.add(name, path)
	if err != nil {
		return err
	}
	if h.watcher != nil {
		if err := h.watcher.watch(rec.Path); err != nil {
			rec.log.Warn("could not watch module, falling back to polling", "err", err)
		}
	}
	return h.check(rec, state)
}

// RegisterStatic adds a module compiled into the shell. It is loaded once and
// never polled.
func (h *Host[S]) RegisterStatic(name string, lib Library[S], state S) error {
	rec, err := h.add(name, "")
	if err != nil {
		return err
	}
	rec.static = true
	rec.version = 1
	rec.lib = lib
	rec.entry = lib.Resolve(name)
	rec.log.Info("static module registered")
	h.callLoad(rec, state)
	return nil
}

func (h *Host[S]) add(name, path string) (*Record[S], error) {
	if _, exists := h.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	if path != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}
	}
	rec := &Record[S]{
		Name:     name,
		Path:     path,
		reported: make(map[string]bool),
		log:      core.SubLogger("module", name),
	}
	h.records = append(h.records, rec)
	h.byName[name] = rec
	return rec, nil
}

// Modules returns a snapshot of every record in registration order.
func (h *Host[S]) Modules() []ModuleInfo {
	out := make([]ModuleInfo, len(h.records))
	for i, rec := range h.records {
		out[i] = rec.info()
	}
	return out
}

func (h *Host[S]) Module(name string) (*Record[S], bool) {
	rec, ok := h.byName[name]
	return rec, ok
}

// CheckAll polls every dynamic module and applies load and unload deltas.
// Errors are logged as they happen and returned joined.
func (h *Host[S]) CheckAll(state S) error {
	var errs []error
	for _, rec := range h.records {
		if rec.static {
			continue
		}
		if err := h.check(rec, state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Check polls a single module by name.
func (h *Host[S]) Check(name string, state S) error {
	rec, ok := h.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if rec.static {
		return nil
	}
	return h.check(rec, state)
}

func (h *Host[S]) check(rec *Record[S], state S) error {
	if h.watcher != nil && rec.lib != nil && !h.watcher.consume(rec.Path) {
		return nil
	}

	info, err := os.Stat(rec.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrLoadFailure, rec.Name, err)
		}
		if rec.missing {
			return nil
		}
		rec.missing = true
		h.unload(rec, state)
		rec.modTime = time.Time{}
		rec.quarantined = false
		err := fmt.Errorf("%w: %s", ErrNotFound, rec.Path)
		rec.log.Error("module source removed, unloaded", "err", err)
		return err
	}
	rec.missing = false

	modTime := info.ModTime()
	if modTime.Equal(rec.modTime) && (rec.lib != nil || rec.quarantined) {
		return nil
	}
	return h.swap(rec, modTime, state)
}

// swap stages and opens the next version, then retires the current one. If
// staging or opening fails nothing changes and the next check retries.
func (h *Host[S]) swap(rec *Record[S], modTime time.Time, state S) error {
	version := rec.version + 1
	ext := filepath.Ext(rec.Path)
	if ext == "" {
		ext = LibraryExt()
	}
	staged := filepath.Join(h.staging, fmt.Sprintf("%s_%d%s", rec.Name, version, ext))

	if err := copyFile(rec.Path, staged); err != nil {
		err = fmt.Errorf("%w: %s: stage %s: %w", ErrLoadFailure, rec.Name, staged, err)
		rec.log.Error("could not stage module", "err", err)
		return err
	}
	lib, err := h.opener.Open(staged)
	if err != nil {
		_ = os.Remove(staged)
		err = fmt.Errorf("%w: %s: open %s: %w", ErrLoadFailure, rec.Name, staged, err)
		rec.log.Error("could not open module", "err", err)
		return err
	}

	if rec.lib != nil {
		rec.log.Info("module changed, reloading", "from", rec.version, "to", version)
	}
	h.unload(rec, state)

	rec.lib = lib
	rec.entry = lib.Resolve(rec.Name)
	rec.version = version
	rec.staged = staged
	rec.modTime = modTime
	rec.failures = 0
	rec.quarantined = false
	clear(rec.reported)

	rec.log.Info("module loaded", "version", version, "path", staged)
	h.callLoad(rec, state)
	return nil
}

func (h *Host[S]) callLoad(rec *Record[S], state S) {
	if rec.entry.Load == nil {
		h.reportMissing(rec, "load")
		return
	}
	if err := guard(func() error { return rec.entry.Load(state) }); err != nil {
		rec.log.Error("load failed", "version", rec.version, "err", err)
		h.failed(rec, state)
	}
}

// unload calls the unload hook of the current version and closes it.
func (h *Host[S]) unload(rec *Record[S], state S) {
	if rec.lib == nil {
		return
	}
	if rec.entry.Unload == nil {
		h.reportMissing(rec, "unload")
	} else if err := guard(func() error { return rec.entry.Unload(state) }); err != nil {
		rec.log.Error("unload failed", "version", rec.version, "err", err)
	}
	if err := rec.lib.Close(); err != nil {
		rec.log.Warn("could not close library", "version", rec.version, "err", err)
	}
	rec.lib = nil
	rec.entry = Entry[S]{}
	if rec.staged != "" {
		_ = os.Remove(rec.staged)
	}
}

// UpdateAll ticks every loaded module once, in registration order.
func (h *Host[S]) UpdateAll(state S, delta time.Duration) {
	for _, rec := range h.records {
		if rec.lib == nil {
			continue
		}
		if rec.entry.Update == nil {
			h.reportMissing(rec, "update")
			continue
		}
		if err := guard(func() error { return rec.entry.Update(state, delta) }); err != nil {
			rec.log.Error("update failed", "version", rec.version, "err", err)
			h.failed(rec, state)
			continue
		}
		rec.failures = 0
	}
}

func (h *Host[S]) failed(rec *Record[S], state S) {
	rec.failures++
	if rec.failures < h.config.MaxFailures {
		return
	}
	rec.log.Error("module keeps failing, quarantined until its file changes",
		"version", rec.version, "failures", rec.failures)
	h.unload(rec, state)
	rec.quarantined = true
}

func (h *Host[S]) reportMissing(rec *Record[S], hook string) {
	if rec.reported[hook] {
		return
	}
	rec.reported[hook] = true
	err := fmt.Errorf("%w: %s_%s", ErrSymbolMissing, rec.Name, hook)
	rec.log.Error("dispatch skipped", "version", rec.version, "err", err)
}

// Shutdown unloads every module in reverse registration order and removes
// the staging directory.
func (h *Host[S]) Shutdown(state S) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	for _, rec := range slices.Backward(h.records) {
		h.unload(rec, state)
	}
	var errs []error
	if h.watcher != nil {
		errs = append(errs, h.watcher.close())
	}
	if h.ownDir {
		errs = append(errs, os.RemoveAll(h.staging))
	}
	return errors.Join(errs...)
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
