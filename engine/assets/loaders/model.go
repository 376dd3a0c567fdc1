package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

type ModelLoader struct {
	Textures TextureLoader
}

// ModelResource is the payload of a loaded model: the model itself and every
// file it was built from, so a cache can invalidate it when any of them
// changes.
type ModelResource struct {
	Model        *metadata.Model
	Dependencies []string
}

func (ml *ModelLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	records, err := ParseOBJ(file, path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	mesh, err := BuildMesh(records, path)
	if err != nil {
		return nil, err
	}

	deps := []string{path}
	materials := make(map[string]*metadata.Material)
	var useMtl string
	for _, rec := range records {
		switch r := rec.(type) {
		case MtlLib:
			mtlPath := filepath.Join(filepath.Dir(path), filepath.FromSlash(string(r)))
			lib, err := ml.loadMaterials(mtlPath)
			if err != nil {
				return nil, err
			}
			deps = append(deps, mtlPath)
			for k, v := range lib {
				materials[k] = v
			}
		case UseMtl:
			// A model carries one material; the first one used wins.
			if useMtl == "" {
				useMtl = string(r)
			} else if string(r) != useMtl {
				core.LogDebug("%s: ignoring usemtl %s, model already uses %s", path, string(r), useMtl)
			}
		}
	}

	material := materials[useMtl]
	if material == nil {
		if useMtl != "" {
			core.LogWarn("%s: material %q not found, using default", path, useMtl)
		}
		material = metadata.DefaultMaterial()
	}
	if material.DiffuseMap != "" && material.Diffuse == nil {
		res, err := ml.Textures.Load(material.DiffuseMap, nil)
		if err != nil {
			core.LogWarn("%s: could not load diffuse map: %s", material.Name, err)
			material.Diffuse = metadata.DefaultMaterial().Diffuse
		} else {
			material.Diffuse = res.Data.(*TextureData).Image
			deps = append(deps, material.DiffuseMap)
		}
	}
	if material.Diffuse == nil {
		material.Diffuse = metadata.DefaultMaterial().Diffuse
	}

	return &metadata.Resource{
		Type:     metadata.ResourceTypeModel,
		Name:     name,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data: &ModelResource{
			Model:        metadata.NewModel(name, mesh, material),
			Dependencies: deps,
		},
	}, nil
}

func (ml *ModelLoader) loadMaterials(path string) (map[string]*metadata.Material, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("material library: %w", err)
	}
	defer file.Close()
	records, err := ParseMTL(file, path)
	if err != nil {
		return nil, err
	}
	return BuildMaterials(records), nil
}

func (ml *ModelLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

// BuildMesh resolves face corners against the vertex pools and fan
// triangulates faces with more than three corners. Normals are generated when
// the file has none.
func BuildMesh(records []OBJRecord, file string) (*metadata.Mesh, error) {
	var (
		positions []Vertex
		uvs       []TextureUVW
		normals   []Normal
	)
	mesh := metadata.NewMesh(filepath.Base(file))
	seen := make(map[FaceIndex]uint32)
	hasNormals := false

	corner := func(c FaceIndex, line int) (uint32, error) {
		if idx, ok := seen[c]; ok {
			return idx, nil
		}
		if c.V < 1 || c.V > len(positions) || c.VT > len(uvs) || c.VN > len(normals) {
			return 0, parseErr(file, line, fmt.Sprintf("%d/%d/%d", c.V, c.VT, c.VN), ErrIndexRange)
		}
		p := positions[c.V-1]
		v := metadata.Vertex{Position: [3]float32{p.X, p.Y, p.Z}}
		if c.VT > 0 {
			t := uvs[c.VT-1]
			v.UV = [3]float32{t.U, t.V, t.W}
		}
		if c.VN > 0 {
			n := normals[c.VN-1]
			v.Normal = [3]float32{n.X, n.Y, n.Z}
			hasNormals = true
		}
		idx := mesh.AppendVertex(v)
		seen[c] = idx
		return idx, nil
	}

	for _, rec := range records {
		switch r := rec.(type) {
		case Vertex:
			positions = append(positions, r)
		case TextureUVW:
			uvs = append(uvs, r)
		case Normal:
			normals = append(normals, r)
		case Face:
			first, err := corner(r.Corners[0], r.Line)
			if err != nil {
				return nil, err
			}
			for i := 1; i+1 < len(r.Corners); i++ {
				b, err := corner(r.Corners[i], r.Line)
				if err != nil {
					return nil, err
				}
				c, err := corner(r.Corners[i+1], r.Line)
				if err != nil {
					return nil, err
				}
				mesh.AppendTriangle(first, b, c)
			}
		}
	}
	if !hasNormals {
		mesh.GenerateNormals()
	}
	return mesh, nil
}
