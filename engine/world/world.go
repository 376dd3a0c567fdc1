package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// World owns every Thing and the facet columns they index into.
type World struct {
	mu     sync.Mutex
	things []*Thing
	facets Facets
}

func New() *World {
	return &World{}
}

// Builder composes a Thing. Facets are staged locally and only written to the
// world by Build, so a Thing is never observable half populated.
type Builder struct {
	world     *World
	cameras   []Camera
	models    []ModelInstance
	physicals []Physical
	healths   []Health
	order     []FacetKind
}

func (w *World) StartThing() *Builder {
	return &Builder{world: w}
}

func (b *Builder) WithCamera(c Camera) *Builder {
	b.cameras = append(b.cameras, c)
	b.order = append(b.order, FacetCamera)
	return b
}

func (b *Builder) WithModel(transform mgl32.Mat4, model *metadata.Model) *Builder {
	b.models = append(b.models, ModelInstance{Transform: transform, Model: model})
	b.order = append(b.order, FacetModel)
	return b
}

func (b *Builder) WithPhysical(p Physical) *Builder {
	b.physicals = append(b.physicals, p)
	b.order = append(b.order, FacetPhysical)
	return b
}

func (b *Builder) WithHealth(h Health) *Builder {
	b.healths = append(b.healths, h)
	b.order = append(b.order, FacetHealth)
	return b
}

// Build appends the staged facets to their columns and inserts the Thing.
func (b *Builder) Build() *Thing {
	w := b.world
	w.mu.Lock()
	defer w.mu.Unlock()

	t := &Thing{id: core.NextIdentity(), facets: make([]FacetRef, 0, len(b.order))}
	var ci, mi, pi, hi int
	for _, kind := range b.order {
		var idx int
		switch kind {
		case FacetCamera:
			idx = w.facets.cameras.insert(b.cameras[ci])
			ci++
		case FacetModel:
			idx = w.facets.models.insert(b.models[mi])
			mi++
		case FacetPhysical:
			idx = w.facets.physicals.insert(b.physicals[pi])
			pi++
		case FacetHealth:
			idx = w.facets.healths.insert(b.healths[hi])
			hi++
		}
		t.facets = append(t.facets, FacetRef{Kind: kind, Index: idx})
	}
	w.things = append(w.things, t)
	return t
}

// Things returns a snapshot of the current things in insertion order.
func (w *World) Things() []*Thing {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Thing, len(w.things))
	copy(out, w.things)
	return out
}

// Thing looks a thing up by identity.
func (w *World) Thing(id core.Identity) (*Thing, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.things {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// WithFacets gives fn exclusive access to the facet columns.
func (w *World) WithFacets(fn func(f *Facets)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.facets)
}

// RemoveThing drops the thing and tombstones every facet it referenced.
// Facet indices held by other things are unaffected.
func (w *World) RemoveThing(id core.Identity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, t := range w.things {
		if t.id != id {
			continue
		}
		t.Lock()
		for _, ref := range t.facets {
			w.facets.remove(ref)
		}
		t.facets = nil
		t.Unlock()
		w.things = append(w.things[:i], w.things[i+1:]...)
		return true
	}
	return false
}

// ActiveCamera returns a copy of the first live camera facet.
func (w *World) ActiveCamera() (*Camera, bool) {
	var cam *Camera
	w.WithFacets(func(f *Facets) {
		f.Cameras(func(_ FacetRef, c *Camera) bool {
			cp := *c
			cam = &cp
			return false
		})
	})
	return cam, cam != nil
}

// Clear drops every thing and facet.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.things = nil
	w.facets = Facets{}
}

func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.things)
}
