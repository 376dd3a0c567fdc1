package ui

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// FPSOverlay renders the frame statistics as bitmap font text. The text mesh
// is only rebuilt when the displayed numbers change.
type FPSOverlay struct {
	font     *metadata.FontData
	material *metadata.Material
	model    *metadata.Model
	layer    metadata.SceneGraph
	text     string
}

// NewFPSOverlay places the text at origin, scaled from font pixels to world
// units by scale.
func NewFPSOverlay(font *metadata.FontData, atlas *metadata.Material, origin mgl32.Vec3, scale float32) *FPSOverlay {
	if atlas == nil {
		atlas = metadata.DefaultMaterial()
	}
	// flip y so text reads top down
	local := mgl32.Translate3D(origin.X(), origin.Y(), origin.Z()).Mul4(mgl32.Scale3D(scale, -scale, scale))
	model := metadata.NewModel("fps-overlay", metadata.NewMesh("text"), atlas)
	model.Local = local
	return &FPSOverlay{
		font:     font,
		material: atlas,
		model:    model,
		layer:    metadata.NewSceneGraph(model),
	}
}

// Update refreshes the text from metrics.
func (o *FPSOverlay) Update(metrics *core.Metrics) {
	fps, frameTime := metrics.Frame()
	text := fmt.Sprintf("FPS: %5.1f\tFrame: %.2fms", fps, frameTime)
	if text == o.text {
		return
	}
	o.text = text
	o.model.Mesh = GenerateTextMesh(o.font, text)
}

func (o *FPSOverlay) Text() string {
	return o.text
}

// Layer is the scene graph to queue on renderers.
func (o *FPSOverlay) Layer() metadata.SceneGraph {
	return o.layer
}
