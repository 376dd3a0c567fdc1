//go:build darwin || linux || freebsd

package modules

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
)

// cDuration is the layout behind the duration pointer handed to
// <prefix>_update: struct { uint64_t secs; uint32_t nanos; }.
type cDuration struct {
	Secs  uint64
	Nanos uint32
	_     uint32
}

// DynamicOpener opens native shared libraries exporting C ABI entry points.
// Modules receive an opaque handle instead of the state itself.
type DynamicOpener[S comparable] struct {
	handles *handles[S]
}

func NewDynamicOpener[S comparable]() *DynamicOpener[S] {
	return &DynamicOpener[S]{handles: newHandles[S]()}
}

// RegisterState returns the opaque handle passed to modules for state.
func (o *DynamicOpener[S]) RegisterState(state S) uintptr {
	return o.handles.register(state)
}

// Lookup resolves a handle received back from native code.
func (o *DynamicOpener[S]) Lookup(handle uintptr) (S, bool) {
	return o.handles.lookup(handle)
}

func (o *DynamicOpener[S]) ReleaseState(state S) {
	o.handles.release(state)
}

func (o *DynamicOpener[S]) Open(path string) (Library[S], error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dynamicLibrary[S]{path: path, handle: lib, opener: o}, nil
}

type dynamicLibrary[S comparable] struct {
	path   string
	handle uintptr
	opener *DynamicOpener[S]
}

func (l *dynamicLibrary[S]) symbol(name string) uintptr {
	sym, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0
	}
	return sym
}

func (l *dynamicLibrary[S]) Resolve(prefix string) Entry[S] {
	var entry Entry[S]
	if sym := l.symbol(prefix + "_load"); sym != 0 {
		entry.Load = func(state S) error {
			purego.SyscallN(sym, l.opener.RegisterState(state))
			return nil
		}
	}
	if sym := l.symbol(prefix + "_update"); sym != 0 {
		entry.Update = func(state S, delta time.Duration) error {
			d := &cDuration{
				Secs:  uint64(delta / time.Second),
				Nanos: uint32(delta % time.Second),
			}
			var pinner runtime.Pinner
			pinner.Pin(d)
			defer pinner.Unpin()
			purego.SyscallN(sym, l.opener.RegisterState(state), uintptr(unsafe.Pointer(d)))
			return nil
		}
	}
	if sym := l.symbol(prefix + "_unload"); sym != 0 {
		entry.Unload = func(state S) error {
			purego.SyscallN(sym, l.opener.RegisterState(state))
			return nil
		}
	}
	return entry
}

func (l *dynamicLibrary[S]) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("dlclose %s: %w", l.path, err)
	}
	return nil
}
