package engine

import (
	"slices"
	"time"

	"github.com/spaghettifunk/anima-shell/engine/assets"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/options"
	"github.com/spaghettifunk/anima-shell/engine/renderer"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-shell/engine/ui"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

// State is the global state shared with every module. It lives on the main
// thread; modules only touch it from their hooks.
type State struct {
	World     *world.World
	Input     *core.Aggregator
	Renderers []renderer.Renderer
	// Layers are pushed to every renderer at the end of the frame and then
	// cleared. Modules rebuild or re-push them each tick.
	Layers   []metadata.SceneGraph
	UIEvents *core.Hub[ui.Event]
	Options  *options.Options
	Assets   *assets.AssetManager
	Metrics  *core.Metrics

	// Delta is the duration of the current tick.
	Delta time.Duration
	// Frame counts completed frames.
	Frame uint64

	quit bool
}

func NewState() *State {
	return &State{
		World:    world.New(),
		Input:    core.NewAggregator(),
		UIEvents: core.NewHub[ui.Event](),
		Options:  options.Default(),
		Metrics:  core.NewMetrics(),
	}
}

func (s *State) PushLayer(layer metadata.SceneGraph) {
	if layer == nil {
		return
	}
	s.Layers = append(s.Layers, layer)
}

func (s *State) AddRenderer(r renderer.Renderer) {
	s.Renderers = append(s.Renderers, r)
}

// RemoveRenderer drops the renderer with the given identity without
// unloading it.
func (s *State) RemoveRenderer(id core.Identity) (renderer.Renderer, bool) {
	i := slices.IndexFunc(s.Renderers, func(r renderer.Renderer) bool { return r.ID() == id })
	if i < 0 {
		return nil, false
	}
	r := s.Renderers[i]
	s.Renderers = slices.Delete(s.Renderers, i, i+1)
	return r, true
}

// RequestQuit stops the loop once the current frame has been presented.
func (s *State) RequestQuit() {
	s.quit = true
}

func (s *State) QuitRequested() bool {
	return s.quit
}

// ActiveCamera returns a copy of the first camera facet, or nil.
func (s *State) ActiveCamera() *world.Camera {
	cam, _ := s.World.ActiveCamera()
	return cam
}
