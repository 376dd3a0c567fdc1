package world

import (
	"github.com/sasha-s/go-deadlock"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// Thing is an entity: an identity plus typed indices into the facet columns.
// Modules may keep a *Thing across frames; mutate it only while holding the
// lock.
type Thing struct {
	deadlock.Mutex

	id     core.Identity
	facets []FacetRef
}

func (t *Thing) ID() core.Identity {
	return t.id
}

// Facets returns a copy of the facet references in the order they were added.
// Callers must hold the lock.
func (t *Thing) Facets() []FacetRef {
	out := make([]FacetRef, len(t.facets))
	copy(out, t.facets)
	return out
}

// First returns the first facet reference of the given kind.
// Callers must hold the lock.
func (t *Thing) First(kind FacetKind) (FacetRef, bool) {
	for _, ref := range t.facets {
		if ref.Kind == kind {
			return ref, true
		}
	}
	return FacetRef{}, false
}
