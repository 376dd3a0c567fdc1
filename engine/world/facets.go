package world

import (
	"fmt"
)

type FacetKind uint8

const (
	FacetCamera FacetKind = iota
	FacetModel
	FacetPhysical
	FacetHealth
)

func (k FacetKind) String() string {
	switch k {
	case FacetCamera:
		return "camera"
	case FacetModel:
		return "model"
	case FacetPhysical:
		return "physical"
	case FacetHealth:
		return "health"
	}
	return fmt.Sprintf("facet(%d)", uint8(k))
}

// FacetRef is a typed index into one of the facet columns.
type FacetRef struct {
	Kind  FacetKind
	Index int
}

// column is an ordered facet table with a free list. Removed slots are
// tombstoned and handed out again by the next insert, so the index of every
// other live facet stays stable.
type column[T any] struct {
	items []T
	live  []bool
	free  []int
}

func (c *column[T]) insert(v T) int {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		c.items[idx] = v
		c.live[idx] = true
		return idx
	}
	c.items = append(c.items, v)
	c.live = append(c.live, true)
	return len(c.items) - 1
}

func (c *column[T]) remove(idx int) bool {
	if idx < 0 || idx >= len(c.items) || !c.live[idx] {
		return false
	}
	var zero T
	c.items[idx] = zero
	c.live[idx] = false
	c.free = append(c.free, idx)
	return true
}

func (c *column[T]) get(idx int) (*T, bool) {
	if idx < 0 || idx >= len(c.items) || !c.live[idx] {
		return nil, false
	}
	return &c.items[idx], true
}

func (c *column[T]) len() int {
	return len(c.items) - len(c.free)
}

// Facets holds one column per facet kind.
type Facets struct {
	cameras   column[Camera]
	models    column[ModelInstance]
	physicals column[Physical]
	healths   column[Health]
}

func (f *Facets) Camera(ref FacetRef) (*Camera, bool) {
	if ref.Kind != FacetCamera {
		return nil, false
	}
	return f.cameras.get(ref.Index)
}

func (f *Facets) Model(ref FacetRef) (*ModelInstance, bool) {
	if ref.Kind != FacetModel {
		return nil, false
	}
	return f.models.get(ref.Index)
}

func (f *Facets) Physical(ref FacetRef) (*Physical, bool) {
	if ref.Kind != FacetPhysical {
		return nil, false
	}
	return f.physicals.get(ref.Index)
}

func (f *Facets) Health(ref FacetRef) (*Health, bool) {
	if ref.Kind != FacetHealth {
		return nil, false
	}
	return f.healths.get(ref.Index)
}

// Count returns the number of live facets of the given kind.
func (f *Facets) Count(kind FacetKind) int {
	switch kind {
	case FacetCamera:
		return f.cameras.len()
	case FacetModel:
		return f.models.len()
	case FacetPhysical:
		return f.physicals.len()
	case FacetHealth:
		return f.healths.len()
	}
	return 0
}

// Cameras calls fn for every live camera facet in column order.
func (f *Facets) Cameras(fn func(ref FacetRef, c *Camera) bool) {
	for i := range f.cameras.items {
		if f.cameras.live[i] && !fn(FacetRef{Kind: FacetCamera, Index: i}, &f.cameras.items[i]) {
			return
		}
	}
}

// Models calls fn for every live model facet in column order.
func (f *Facets) Models(fn func(ref FacetRef, m *ModelInstance) bool) {
	for i := range f.models.items {
		if f.models.live[i] && !fn(FacetRef{Kind: FacetModel, Index: i}, &f.models.items[i]) {
			return
		}
	}
}

func (f *Facets) remove(ref FacetRef) bool {
	switch ref.Kind {
	case FacetCamera:
		return f.cameras.remove(ref.Index)
	case FacetModel:
		return f.models.remove(ref.Index)
	case FacetPhysical:
		return f.physicals.remove(ref.Index)
	case FacetHealth:
		return f.healths.remove(ref.Index)
	}
	return false
}
