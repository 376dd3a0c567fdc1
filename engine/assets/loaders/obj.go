package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OBJRecord is one line of a Wavefront OBJ stream.
type OBJRecord interface {
	isOBJRecord()
}

type Vertex struct{ X, Y, Z, W float32 }
type Normal struct{ X, Y, Z float32 }
type TextureUVW struct{ U, V, W float32 }
type VertexParam struct{ U, V, W float32 }

// FaceIndex is one corner of a face. Indices are 1-based and already
// resolved when the file used relative (negative) indices. VT and VN are 0
// when absent.
type FaceIndex struct {
	V, VT, VN int
}

type Face struct {
	Corners []FaceIndex
	Line    int
}

type ObjectName string
type GroupName string
type MtlLib string
type UseMtl string
type SmoothShading string
type Comment string

func (Vertex) isOBJRecord()        {}
func (Normal) isOBJRecord()        {}
func (TextureUVW) isOBJRecord()    {}
func (VertexParam) isOBJRecord()   {}
func (Face) isOBJRecord()          {}
func (ObjectName) isOBJRecord()    {}
func (GroupName) isOBJRecord()     {}
func (MtlLib) isOBJRecord()        {}
func (UseMtl) isOBJRecord()        {}
func (SmoothShading) isOBJRecord() {}
func (Comment) isOBJRecord()       {}

// ParseOBJ reads r into tagged records. Unknown keywords are skipped.
func ParseOBJ(r io.Reader, file string) ([]OBJRecord, error) {
	var (
		records                []OBJRecord
		vertices, uvs, normals int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			records = append(records, Comment(strings.TrimSpace(line[1:])))
			continue
		}

		fields := strings.Fields(line)
		key, args := fields[0], fields[1:]
		rest := strings.TrimSpace(strings.TrimPrefix(line, key))

		switch key {
		case "v":
			f, err := parseFloats(args, 3, 4)
			if err != nil {
				return nil, parseErr(file, lineNo, line, err)
			}
			v := Vertex{X: f[0], Y: f[1], Z: f[2], W: 1}
			if len(f) == 4 {
				v.W = f[3]
			}
			vertices++
			records = append(records, v)
		case "vn":
			f, err := parseFloats(args, 3, 3)
			if err != nil {
				return nil, parseErr(file, lineNo, line, err)
			}
			normals++
			records = append(records, Normal{X: f[0], Y: f[1], Z: f[2]})
		case "vt":
			f, err := parseFloats(args, 1, 3)
			if err != nil {
				return nil, parseErr(file, lineNo, line, err)
			}
			f = append(f, 0, 0)
			uvs++
			records = append(records, TextureUVW{U: f[0], V: f[1], W: f[2]})
		case "vp":
			f, err := parseFloats(args, 1, 3)
			if err != nil {
				return nil, parseErr(file, lineNo, line, err)
			}
			f = append(f, 0, 0)
			records = append(records, VertexParam{U: f[0], V: f[1], W: f[2]})
		case "f":
			if len(args) < 3 {
				return nil, parseErr(file, lineNo, line, fmt.Errorf("%w: face needs at least 3 corners", ErrMalformed))
			}
			face := Face{Corners: make([]FaceIndex, 0, len(args)), Line: lineNo}
			for _, a := range args {
				c, err := parseCorner(a, vertices, uvs, normals)
				if err != nil {
					return nil, parseErr(file, lineNo, line, err)
				}
				face.Corners = append(face.Corners, c)
			}
			records = append(records, face)
		case "o":
			records = append(records, ObjectName(rest))
		case "g":
			records = append(records, GroupName(rest))
		case "mtllib":
			records = append(records, MtlLib(rest))
		case "usemtl":
			records = append(records, UseMtl(rest))
		case "s":
			records = append(records, SmoothShading(rest))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseFloats(args []string, lo, hi int) ([]float32, error) {
	if len(args) < lo || len(args) > hi {
		return nil, fmt.Errorf("%w: expected %d to %d values, got %d", ErrMalformed, lo, hi, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseCorner reads v, v/vt, v//vn or v/vt/vn.
func parseCorner(s string, vertices, uvs, normals int) (FaceIndex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return FaceIndex{}, fmt.Errorf("%w: corner %q", ErrMalformed, s)
	}
	var c FaceIndex
	var err error
	if c.V, err = resolveIndex(parts[0], vertices); err != nil {
		return FaceIndex{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.VT, err = resolveIndex(parts[1], uvs); err != nil {
			return FaceIndex{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.VN, err = resolveIndex(parts[2], normals); err != nil {
			return FaceIndex{}, err
		}
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformed, s)
	}
	if i < 0 {
		i = count + i + 1
	}
	if i < 1 || i > count {
		return 0, fmt.Errorf("%w: %s of %d", ErrIndexRange, s, count)
	}
	return i, nil
}
