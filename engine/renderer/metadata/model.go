package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/containers"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// Model is a drawable: a mesh and a material placed by a local transform.
// Mesh and material are shared between instances of the same file; World is
// rewritten by every render traversal.
type Model struct {
	Filename string
	ID       core.Identity
	Local    mgl32.Mat4
	World    mgl32.Mat4
	Material *Material
	Mesh     *Mesh
	Hidden   bool
}

func NewModel(filename string, mesh *Mesh, material *Material) *Model {
	if material == nil {
		material = DefaultMaterial()
	}
	return &Model{
		Filename: filename,
		ID:       core.NextIdentity(),
		Local:    mgl32.Ident4(),
		World:    mgl32.Ident4(),
		Material: material,
		Mesh:     mesh,
	}
}

// Instance returns a new model that shares mesh and material with m but has
// its own identity and transforms.
func (m *Model) Instance(local mgl32.Mat4) *Model {
	return &Model{
		Filename: m.Filename,
		ID:       core.NextIdentity(),
		Local:    local,
		World:    local,
		Material: m.Material,
		Mesh:     m.Mesh,
	}
}

// Drawable reports whether the model has geometry and is not hidden.
func (m *Model) Drawable() bool {
	return m != nil && !m.Hidden && m.Mesh != nil && len(m.Mesh.Indices) > 0
}

// SceneGraph is the root of a tree of models. A renderer draws one scene
// graph per queued layer.
type SceneGraph = *containers.Node[*Model]

// NewSceneGraph creates a root node carrying model.
func NewSceneGraph(model *Model) SceneGraph {
	return containers.NewNode(model, nil)
}

// Attach adds model as a child of parent and returns the new node.
func Attach(parent SceneGraph, model *Model) SceneGraph {
	return containers.NewNode(model, parent)
}
