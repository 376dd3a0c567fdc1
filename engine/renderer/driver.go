package renderer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

// DefaultAcquireTimeout keeps a stalled swapchain from blocking the loop.
const DefaultAcquireTimeout = 500 * time.Microsecond

// Meshes not drawn for this many frames are released from the backend.
const evictAfterFrames = 120

type SceneRendererConfig struct {
	Name   string
	Width  uint32
	Height uint32
	Mode   DrawMode
	// Scale is a uniform scale applied between view and world.
	Scale          float32
	AcquireTimeout time.Duration
}

// SceneRenderer draws scene graph layers through a Backend. The optional
// window is polled for input.
type SceneRenderer struct {
	id      core.Identity
	config  SceneRendererConfig
	backend Backend
	window  core.InputSource

	scale         mgl32.Mat4
	layers        []metadata.SceneGraph
	uploaded      map[*metadata.Mesh]uint64
	frame         uint64
	loaded        bool
	needsRecreate bool
	skipped       uint64
}

func NewSceneRenderer(config SceneRendererConfig, backend Backend, window core.InputSource) *SceneRenderer {
	if config.Scale == 0 {
		config.Scale = 1
	}
	if config.AcquireTimeout <= 0 {
		config.AcquireTimeout = DefaultAcquireTimeout
	}
	return &SceneRenderer{
		id:       core.NextIdentity(),
		config:   config,
		backend:  backend,
		window:   window,
		scale:    mgl32.Scale3D(config.Scale, config.Scale, config.Scale),
		uploaded: make(map[*metadata.Mesh]uint64),
	}
}

func (r *SceneRenderer) ID() core.Identity {
	return r.id
}

func (r *SceneRenderer) Load() error {
	if r.loaded {
		return nil
	}
	if err := r.backend.Initialize(BackendConfig{
		Name:   r.config.Name,
		Width:  r.config.Width,
		Height: r.config.Height,
		Mode:   r.config.Mode,
	}); err != nil {
		return fmt.Errorf("renderer %s: %w", r.config.Name, err)
	}
	r.loaded = true
	core.LogDebug("renderer %s loaded (%s)", r.config.Name, r.config.Mode)
	return nil
}

func (r *SceneRenderer) Unload() error {
	if !r.loaded {
		return nil
	}
	r.loaded = false
	r.layers = nil
	clear(r.uploaded)
	return r.backend.Destroy()
}

func (r *SceneRenderer) QueueLayer(layer metadata.SceneGraph) {
	if layer == nil {
		return
	}
	r.layers = append(r.layers, layer)
}

func (r *SceneRenderer) DrainInput() []core.InputEvent {
	if r.window == nil {
		return nil
	}
	return r.window.Drain()
}

// NeedsRecreate reports whether the swapchain will be rebuilt on the next
// Present.
func (r *SceneRenderer) NeedsRecreate() bool {
	return r.needsRecreate
}

// Skipped counts frames dropped because of acquire timeouts or an out of
// date swapchain.
func (r *SceneRenderer) Skipped() uint64 {
	return r.skipped
}

func (r *SceneRenderer) Present(camera *world.Camera) error {
	layers := r.layers
	r.layers = nil
	if !r.loaded {
		return nil
	}

	if r.needsRecreate {
		if err := r.backend.Recreate(r.config.Width, r.config.Height); err != nil {
			core.LogWarn("renderer %s: swapchain recreation failed: %s", r.config.Name, err)
			r.skipped++
			return nil
		}
		r.needsRecreate = false
	}

	if err := r.backend.BeginFrame(r.config.AcquireTimeout); err != nil {
		return r.frameFailed(err)
	}

	if camera == nil {
		cam := world.NewCamera()
		camera = &cam
	}
	if err := r.backend.SetUniform(camera.Projection()); err != nil {
		return fmt.Errorf("renderer %s: set uniform: %w", r.config.Name, err)
	}
	viewScale := camera.View().Mul4(r.scale)

	for _, layer := range layers {
		for model, worldMat := range walkComposed(layer) {
			if !model.Drawable() {
				continue
			}
			if err := r.draw(model, viewScale.Mul4(worldMat)); err != nil {
				core.LogError("renderer %s: draw %s: %s", r.config.Name, model.Filename, err)
			}
		}
	}

	if err := r.backend.EndFrame(); err != nil {
		return r.frameFailed(err)
	}
	r.frame++
	if r.frame%evictAfterFrames == 0 {
		r.evict()
	}
	return nil
}

func (r *SceneRenderer) evict() {
	for mesh, last := range r.uploaded {
		if r.frame-last < evictAfterFrames {
			continue
		}
		if err := r.backend.Release(mesh); err != nil {
			core.LogWarn("renderer %s: release %s: %s", r.config.Name, mesh.Name, err)
		}
		delete(r.uploaded, mesh)
	}
}

func (r *SceneRenderer) draw(model *metadata.Model, push mgl32.Mat4) error {
	if _, ok := r.uploaded[model.Mesh]; !ok {
		if err := r.backend.Upload(model); err != nil {
			return err
		}
	}
	r.uploaded[model.Mesh] = r.frame
	if err := r.backend.BindModel(model); err != nil {
		return err
	}
	return r.backend.DrawIndexed(model, push)
}

func (r *SceneRenderer) frameFailed(err error) error {
	switch {
	case errors.Is(err, core.ErrSwapchainOutOfDate):
		r.needsRecreate = true
		r.skipped++
		return nil
	case errors.Is(err, core.ErrAcquireTimeout):
		r.skipped++
		return nil
	}
	return fmt.Errorf("renderer %s: %w", r.config.Name, err)
}

// Resize records the new surface size and flags the swapchain for
// recreation on the next Present.
func (r *SceneRenderer) Resize(width, height uint32) {
	r.config.Width = max(width, 1)
	r.config.Height = max(height, 1)
	r.needsRecreate = true
}
