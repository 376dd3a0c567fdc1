package renderer

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// BackendConfig is handed to a backend when its renderer loads.
type BackendConfig struct {
	Name   string
	Width  uint32
	Height uint32
	Mode   DrawMode
}

// Backend is the GPU boundary. Implementations own the swapchain, pipelines
// and device memory; the scene renderer only talks to them through this set.
type Backend interface {
	Initialize(config BackendConfig) error
	// Upload makes the model's mesh and diffuse image resident. Called once
	// per mesh.
	Upload(model *metadata.Model) error
	// BeginFrame acquires the next image. It returns core.ErrAcquireTimeout
	// when nothing was available within timeout and core.ErrSwapchainOutOfDate
	// when the surface changed.
	BeginFrame(timeout time.Duration) error
	// Release frees what Upload made resident for mesh.
	Release(mesh *metadata.Mesh) error
	SetUniform(projection mgl32.Mat4) error
	BindModel(model *metadata.Model) error
	DrawIndexed(model *metadata.Model, push mgl32.Mat4) error
	EndFrame() error
	Recreate(width, height uint32) error
	Destroy() error
}
