package renderer

import (
	"iter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/containers"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// walkComposed visits layer breadth-first and yields every node together with
// its composed world transform. The root's world is its local transform; a
// child's world is parent.world · child.local. The result is also written to
// Model.World. Nodes without a model act as identity transforms.
func walkComposed(layer metadata.SceneGraph) iter.Seq2[*metadata.Model, mgl32.Mat4] {
	return func(yield func(*metadata.Model, mgl32.Mat4) bool) {
		if layer == nil {
			return
		}
		worlds := make(map[uint64]mgl32.Mat4)
		for id, node := range containers.BFS(layer) {
			local := mgl32.Ident4()
			model := node.Payload()
			if model != nil {
				local = model.Local
			}
			world := local
			if id != layer.ID() {
				if parent := node.Parent(); parent != nil {
					if pw, ok := worlds[parent.ID()]; ok {
						world = pw.Mul4(local)
					}
				}
			}
			worlds[id] = world
			if model != nil {
				model.World = world
			}
			if !yield(model, world) {
				return
			}
		}
	}
}

// ComposeTransforms refreshes Model.World for every node of layer without
// drawing anything.
func ComposeTransforms(layer metadata.SceneGraph) {
	for range walkComposed(layer) {
	}
}
