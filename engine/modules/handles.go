package modules

import (
	"sync"
)

// handles maps host states to opaque integers that can cross the C ABI.
// Native modules never see a Go pointer.
type handles[S comparable] struct {
	mu    sync.Mutex
	next  uintptr
	byVal map[S]uintptr
	byID  map[uintptr]S
}

func newHandles[S comparable]() *handles[S] {
	return &handles[S]{
		byVal: make(map[S]uintptr),
		byID:  make(map[uintptr]S),
	}
}

func (h *handles[S]) register(state S) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id, ok := h.byVal[state]; ok {
		return id
	}
	h.next++
	h.byVal[state] = h.next
	h.byID[h.next] = state
	return h.next
}

func (h *handles[S]) lookup(id uintptr) (S, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.byID[id]
	return s, ok
}

func (h *handles[S]) release(state S) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id, ok := h.byVal[state]; ok {
		delete(h.byVal, state)
		delete(h.byID, id)
	}
}
