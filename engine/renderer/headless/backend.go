// Package headless implements a renderer backend that draws nothing. It keeps
// a record of the last frame so the scene renderer can be exercised without a
// GPU.
package headless

import (
	"errors"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

var errNotInitialized = errors.New("headless backend not initialized")

// Draw is one recorded indexed draw.
type Draw struct {
	Model   core.Identity
	Indices int
	Push    mgl32.Mat4
}

type Backend struct {
	mu sync.Mutex

	name        string
	config      renderer.BackendConfig
	initialized bool
	inFrame     bool

	projection mgl32.Mat4
	bound      *metadata.Model
	current    []Draw
	last       []Draw
	uploads    int
	frames     int
	recreates  int
	releases   int

	// beginErrs are returned, in order, by the next BeginFrame calls.
	beginErrs []error
}

func New() *Backend {
	return &Backend{name: "headless-" + uuid.NewString()[:8]}
}

func (b *Backend) Name() string {
	return b.name
}

func (b *Backend) Initialize(config renderer.BackendConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if config.Name != "" {
		b.name = config.Name
	}
	b.config = config
	b.initialized = true
	core.LogDebug("headless backend %s initialized %dx%d", b.name, config.Width, config.Height)
	return nil
}

func (b *Backend) Upload(model *metadata.Model) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return errNotInitialized
	}
	b.uploads++
	return nil
}

func (b *Backend) Release(mesh *metadata.Mesh) error {
	b.mu.Lock()
	b.releases++
	b.mu.Unlock()
	return nil
}

// FailBeginFrame queues errs to be returned by the following BeginFrame calls.
func (b *Backend) FailBeginFrame(errs ...error) {
	b.mu.Lock()
	b.beginErrs = append(b.beginErrs, errs...)
	b.mu.Unlock()
}

func (b *Backend) BeginFrame(timeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return errNotInitialized
	}
	if len(b.beginErrs) > 0 {
		err := b.beginErrs[0]
		b.beginErrs = b.beginErrs[1:]
		return err
	}
	b.inFrame = true
	b.current = b.current[:0]
	return nil
}

func (b *Backend) SetUniform(projection mgl32.Mat4) error {
	b.mu.Lock()
	b.projection = projection
	b.mu.Unlock()
	return nil
}

func (b *Backend) BindModel(model *metadata.Model) error {
	b.mu.Lock()
	b.bound = model
	b.mu.Unlock()
	return nil
}

func (b *Backend) DrawIndexed(model *metadata.Model, push mgl32.Mat4) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return errors.New("draw outside of a frame")
	}
	if b.bound != model {
		return errors.New("draw of a model that is not bound")
	}
	b.current = append(b.current, Draw{Model: model.ID, Indices: len(model.Mesh.Indices), Push: push})
	return nil
}

func (b *Backend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFrame = false
	b.last = append(b.last[:0], b.current...)
	b.frames++
	return nil
}

func (b *Backend) Recreate(width, height uint32) error {
	b.mu.Lock()
	b.config.Width, b.config.Height = width, height
	b.recreates++
	b.mu.Unlock()
	return nil
}

func (b *Backend) Destroy() error {
	b.mu.Lock()
	b.initialized = false
	b.mu.Unlock()
	return nil
}

// LastFrame returns the draws issued by the most recently completed frame.
func (b *Backend) LastFrame() []Draw {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Draw, len(b.last))
	copy(out, b.last)
	return out
}

// Releases counts meshes evicted by the renderer.
func (b *Backend) Releases() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.releases
}

func (b *Backend) Projection() mgl32.Mat4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.projection
}

// Stats returns the number of completed frames, mesh uploads and swapchain
// recreations.
func (b *Backend) Stats() (frames, uploads, recreates int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames, b.uploads, b.recreates
}
