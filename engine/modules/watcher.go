package modules

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// watcher records which module sources changed. Directories are watched
// rather than files so that editors and linkers replacing the file by rename
// are still observed.
type watcher struct {
	fsnotify *fsnotify.Watcher

	mutex   sync.Mutex
	dirs    map[string]int
	watched map[string]bool
	dirty   map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

func newWatcher() (*watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		fsnotify: fsWatch,
		dirs:     make(map[string]int),
		watched:  make(map[string]bool),
		dirty:    make(map[string]bool),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

func (w *watcher) watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.dirs[dir] == 0 {
		if err := w.fsnotify.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.watched[path] = true
	return nil
}

// consume reports whether path changed since the last call and clears the
// flag.
func (w *watcher) consume(path string) bool {
	path = filepath.Clean(path)
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.watched[path] {
		// Not watched, always stat.
		return true
	}
	changed := w.dirty[path]
	delete(w.dirty, path)
	return changed
}

func (w *watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			name := filepath.Clean(e.Name)
			w.mutex.Lock()
			if w.watched[name] {
				w.dirty[name] = true
			}
			w.mutex.Unlock()

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("module watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

func (w *watcher) close() error {
	close(w.done)
	err := w.fsnotify.Close()
	w.wg.Wait()
	return err
}
