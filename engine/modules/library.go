package modules

import (
	"runtime"
	"time"
)

// Entry holds the lifecycle entry points of one library version. A nil
// function means the symbol is missing.
type Entry[S any] struct {
	Load   func(state S) error
	Update func(state S, delta time.Duration) error
	Unload func(state S) error
}

// Library is an opened module.
type Library[S any] interface {
	// Resolve looks up <prefix>_load, <prefix>_update and <prefix>_unload.
	Resolve(prefix string) Entry[S]
	Close() error
}

// Opener turns a staged file into a Library.
type Opener[S any] interface {
	Open(path string) (Library[S], error)
}

// StaticLibrary is a module compiled into the shell.
type StaticLibrary[S any] struct {
	Entry  Entry[S]
	closed bool
}

func NewStaticLibrary[S any](load func(S) error, update func(S, time.Duration) error, unload func(S) error) *StaticLibrary[S] {
	return &StaticLibrary[S]{Entry: Entry[S]{Load: load, Update: update, Unload: unload}}
}

func (l *StaticLibrary[S]) Resolve(string) Entry[S] {
	return l.Entry
}

func (l *StaticLibrary[S]) Close() error {
	l.closed = true
	return nil
}

// LibraryExt is the shared library extension of the running platform.
func LibraryExt() string {
	switch runtime.GOOS {
	case "darwin", "ios":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}
