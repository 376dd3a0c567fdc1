package renderer

import (
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

type DrawMode uint8

const (
	Wireframe DrawMode = iota
	Points
	Colored
)

func (m DrawMode) String() string {
	switch m {
	case Wireframe:
		return "wireframe"
	case Points:
		return "points"
	case Colored:
		return "colored"
	}
	return "unknown"
}

// ParseDrawMode maps a config string to a DrawMode. Unknown values map to Colored.
func ParseDrawMode(s string) DrawMode {
	switch s {
	case "wireframe":
		return Wireframe
	case "points":
		return Points
	default:
		return Colored
	}
}

// Renderer is the boundary between the frame loop and anything that draws.
// Layers queued during a frame are consumed by the next Present.
type Renderer interface {
	ID() core.Identity
	Load() error
	Unload() error
	QueueLayer(layer metadata.SceneGraph)
	// Present draws every queued layer from camera. A renderer that cannot
	// present flags itself for recreation and returns nil.
	Present(camera *world.Camera) error
	DrainInput() []core.InputEvent
}

type inputSource struct {
	r Renderer
}

func (s inputSource) ID() core.Identity        { return s.r.ID() }
func (s inputSource) Drain() []core.InputEvent { return s.r.DrainInput() }

// Source exposes the input side of a renderer to the aggregator.
func Source(r Renderer) core.InputSource {
	return inputSource{r: r}
}

// Sources adapts every renderer, preserving order.
func Sources(renderers []Renderer) []core.InputSource {
	out := make([]core.InputSource, len(renderers))
	for i, r := range renderers {
		out[i] = Source(r)
	}
	return out
}
