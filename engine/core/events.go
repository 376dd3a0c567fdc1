package core

import (
	"sync"
	"weak"

	"github.com/sasha-s/go-deadlock"
)

// Handler is a subscriber callback owned by whoever subscribed it. A Hub only
// keeps a weak reference, so once the subscriber drops its *Handler the
// subscription silently stops receiving events.
type Handler[T any] struct {
	mu deadlock.Mutex
	fn func(event T)
}

func NewHandler[T any](fn func(event T)) *Handler[T] {
	return &Handler[T]{fn: fn}
}

func (h *Handler[T]) invoke(event T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fn(event)
}

// Hub is a typed publish/subscribe producer keyed by string.
type Hub[T any] struct {
	mu       sync.RWMutex
	handlers map[string]weak.Pointer[Handler[T]]
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		handlers: make(map[string]weak.Pointer[Handler[T]]),
	}
}

/**
 * Register a handler under key. The first registration for a key wins.
 * @returns true if the handler was added; false if the key was taken or h is nil.
 */
func (h *Hub[T]) AddHandler(key string, handler *Handler[T]) bool {
	if handler == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.handlers[key]; exists {
		return false
	}
	h.handlers[key] = weak.Make(handler)
	return true
}

// RemoveHandler drops the subscription for key. Absent keys are ignored.
func (h *Hub[T]) RemoveHandler(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, key)
}

/**
 * Publish delivers a copy of event to every live subscriber exactly once.
 * The subscription table is snapshotted first, so handlers may add or remove
 * subscriptions; those changes take effect on the next Publish.
 * @returns the number of handlers invoked.
 */
func (h *Hub[T]) Publish(event T) int {
	h.mu.RLock()
	live := make([]*Handler[T], 0, len(h.handlers))
	for _, wp := range h.handlers {
		if handler := wp.Value(); handler != nil {
			live = append(live, handler)
		}
	}
	h.mu.RUnlock()

	for _, handler := range live {
		handler.invoke(event)
	}
	return len(live)
}

// Len returns the number of registered keys, including dead subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.handlers)
}

// Prune removes subscriptions whose handler has been collected.
func (h *Hub[T]) Prune() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	for key, wp := range h.handlers {
		if wp.Value() == nil {
			delete(h.handlers, key)
			removed++
		}
	}
	return removed
}
