package metadata

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the layout uploaded to the GPU for every mesh.
type Vertex struct {
	Position [3]float32
	UV       [3]float32
	Normal   [3]float32
}

// Mesh is an indexed triangle list. Meshes are append-only once created:
// vertices and indices may be added but never rewritten.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AppendVertex adds v and returns its index.
func (m *Mesh) AppendVertex(v Vertex) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

func (m *Mesh) AppendTriangle(i0, i1, i2 uint32) {
	m.Indices = append(m.Indices, i0, i1, i2)
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// GenerateNormals writes face normals on every vertex referenced by a
// triangle. Shared vertices keep the normal of the last face they belong to.
func (m *Mesh) GenerateNormals() {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := mgl32.Vec3(m.Vertices[i0].Position)
		edge1 := mgl32.Vec3(m.Vertices[i1].Position).Sub(p0)
		edge2 := mgl32.Vec3(m.Vertices[i2].Position).Sub(p0)

		normal := edge1.Cross(edge2)
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}
		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		m.Vertices[i0].Normal = normal
		m.Vertices[i1].Normal = normal
		m.Vertices[i2].Normal = normal
	}
}

// GenerateCube builds an axis aligned box centred on the origin with its own
// vertices per face so normals and uvs stay flat.
func GenerateCube(name string, width, height, depth, tileX, tileY float32) *Mesh {
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	if depth == 0 {
		depth = 1
	}
	if tileX == 0 {
		tileX = 1
	}
	if tileY == 0 {
		tileY = 1
	}
	hw, hh, hd := width*0.5, height*0.5, depth*0.5
	minX, maxX := -hw, hw
	minY, maxY := -hh, hh
	minZ, maxZ := -hd, hd

	faces := [6][4][3]float32{
		// Front face
		{{minX, minY, maxZ}, {maxX, maxY, maxZ}, {minX, maxY, maxZ}, {maxX, minY, maxZ}},
		// Back face
		{{maxX, minY, minZ}, {minX, maxY, minZ}, {maxX, maxY, minZ}, {minX, minY, minZ}},
		// Left
		{{minX, minY, minZ}, {minX, maxY, maxZ}, {minX, maxY, minZ}, {minX, minY, maxZ}},
		// Right face
		{{maxX, minY, maxZ}, {maxX, maxY, minZ}, {maxX, maxY, maxZ}, {maxX, minY, minZ}},
		// Bottom face
		{{maxX, minY, maxZ}, {minX, minY, minZ}, {maxX, minY, minZ}, {minX, minY, maxZ}},
		// Top face
		{{minX, maxY, maxZ}, {maxX, maxY, minZ}, {minX, maxY, minZ}, {maxX, maxY, maxZ}},
	}
	uvs := [4][3]float32{{0, tileY, 0}, {tileX, 0, 0}, {0, 0, 0}, {tileX, tileY, 0}}

	mesh := NewMesh(name)
	for _, face := range faces {
		base := uint32(len(mesh.Vertices))
		for c := 0; c < 4; c++ {
			mesh.AppendVertex(Vertex{Position: face[c], UV: uvs[c]})
		}
		mesh.AppendTriangle(base+0, base+1, base+2)
		mesh.AppendTriangle(base+3, base+1, base+0)
	}
	mesh.GenerateNormals()
	return mesh
}
