package core

import (
	"github.com/spaghettifunk/anima-shell/engine/containers"
)

// Aggregator funnels every input source into one ordered queue per tick.
type Aggregator struct {
	queue   *containers.Deque[InputEvent]
	sources []InputSource
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		queue: containers.NewDeque[InputEvent](64),
	}
}

// AddSource registers an auxiliary input source. Sources are drained in
// registration order after the primary ones.
func (a *Aggregator) AddSource(src InputSource) {
	a.sources = append(a.sources, src)
}

// RemoveSource drops the auxiliary source with the given identity.
func (a *Aggregator) RemoveSource(id Identity) bool {
	for i, s := range a.sources {
		if s.ID() == id {
			a.sources = append(a.sources[:i], a.sources[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Aggregator) Sources() int {
	return len(a.sources)
}

// Gather drains primary (the renderers, which own the window event pump)
// and then every auxiliary source. Events from source i precede events from
// source i+1 and keep their original order within a source.
func (a *Aggregator) Gather(primary ...InputSource) {
	for _, src := range primary {
		a.drainFrom(src)
	}
	for _, src := range a.sources {
		a.drainFrom(src)
	}
}

func (a *Aggregator) drainFrom(src InputSource) {
	if src == nil {
		return
	}
	for _, e := range src.Drain() {
		a.queue.PushBack(e)
	}
}

// Queue injects a synthetic event at the back of the queue.
func (a *Aggregator) Queue(e InputEvent) {
	a.queue.PushBack(e)
}

func (a *Aggregator) HasPending() bool {
	return !a.queue.IsEmpty()
}

// Pop consumes the oldest pending event.
func (a *Aggregator) Pop() (InputEvent, bool) {
	e, err := a.queue.PopFront()
	if err != nil {
		return nil, false
	}
	return e, true
}

// Drain consumes every pending event in order.
func (a *Aggregator) Drain() []InputEvent {
	out := a.queue.Items()
	a.queue.Clear()
	return out
}

// Pending returns the queued events without consuming them.
func (a *Aggregator) Pending() []InputEvent {
	return a.queue.Items()
}

// Clear drops unconsumed events, normally at the end of a frame.
func (a *Aggregator) Clear() {
	a.queue.Clear()
}
