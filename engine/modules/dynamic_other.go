//go:build !(darwin || linux || freebsd)

package modules

// DynamicOpener is unavailable on this platform; Open always fails and only
// static modules can be registered.
type DynamicOpener[S comparable] struct {
	handles *handles[S]
}

func NewDynamicOpener[S comparable]() *DynamicOpener[S] {
	return &DynamicOpener[S]{handles: newHandles[S]()}
}

func (o *DynamicOpener[S]) RegisterState(state S) uintptr {
	return o.handles.register(state)
}

func (o *DynamicOpener[S]) Lookup(handle uintptr) (S, bool) {
	return o.handles.lookup(handle)
}

func (o *DynamicOpener[S]) ReleaseState(state S) {
	o.handles.release(state)
}

func (o *DynamicOpener[S]) Open(path string) (Library[S], error) {
	return nil, ErrUnsupported
}
