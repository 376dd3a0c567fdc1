package loaders

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// MTLRecord is one line of a Wavefront material library.
type MTLRecord interface {
	isMTLRecord()
}

type RGB [3]float32

type NewMtl string

// Texture map records carry the path already resolved against the
// directory of the material file.
type AmbientMap string
type DiffuseMap string
type SpecularMap string
type BumpMap string

type AmbientColor RGB
type DiffuseColor RGB
type SpecularColor RGB
type KeColor RGB
type TransmissionFilter RGB

type OpticalDensity float32
type SpecularExponent float32
type TransparencyD float32
type TransparencyTr float32
type IlluminationModel int
type Sharpness float32

func (NewMtl) isMTLRecord()             {}
func (AmbientMap) isMTLRecord()         {}
func (DiffuseMap) isMTLRecord()         {}
func (SpecularMap) isMTLRecord()        {}
func (BumpMap) isMTLRecord()            {}
func (AmbientColor) isMTLRecord()       {}
func (DiffuseColor) isMTLRecord()       {}
func (SpecularColor) isMTLRecord()      {}
func (KeColor) isMTLRecord()            {}
func (TransmissionFilter) isMTLRecord() {}
func (OpticalDensity) isMTLRecord()     {}
func (SpecularExponent) isMTLRecord()   {}
func (TransparencyD) isMTLRecord()      {}
func (TransparencyTr) isMTLRecord()     {}
func (IlluminationModel) isMTLRecord()  {}
func (Sharpness) isMTLRecord()          {}
func (Comment) isMTLRecord()            {}

// ParseMTL reads r into tagged records. file is used for error reporting and
// to resolve texture paths.
func ParseMTL(r io.Reader, file string) ([]MTLRecord, error) {
	dir := filepath.Dir(file)
	var records []MTLRecord

	scanner := bufio.NewScanner(r)
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

		var (
			rec MTLRecord
			err error
		)
		switch key {
		case "newmtl":
			if len(args) == 0 {
				err = fmt.Errorf("%w: newmtl without a name", ErrMalformed)
			}
			rec = NewMtl(strings.TrimSpace(strings.TrimPrefix(line, key)))
		case "map_Ka":
			rec, err = mapPath(args, dir, func(p string) MTLRecord { return AmbientMap(p) })
		case "map_Kd":
			rec, err = mapPath(args, dir, func(p string) MTLRecord { return DiffuseMap(p) })
		case "map_Ks":
			rec, err = mapPath(args, dir, func(p string) MTLRecord { return SpecularMap(p) })
		case "map_bump", "map_Bump", "bump":
			rec, err = mapPath(args, dir, func(p string) MTLRecord { return BumpMap(p) })
		case "Ka":
			var c RGB
			c, err = parseRGB(args)
			rec = AmbientColor(c)
		case "Kd":
			var c RGB
			c, err = parseRGB(args)
			rec = DiffuseColor(c)
		case "Ks":
			var c RGB
			c, err = parseRGB(args)
			rec = SpecularColor(c)
		case "Ke":
			var c RGB
			c, err = parseRGB(args)
			rec = KeColor(c)
		case "Tf":
			var c RGB
			c, err = parseRGB(args)
			rec = TransmissionFilter(c)
		case "Ni":
			var f float32
			f, err = parseScalar(args)
			rec = OpticalDensity(f)
		case "Ns":
			var f float32
			f, err = parseScalar(args)
			rec = SpecularExponent(f)
		case "d":
			var f float32
			f, err = parseScalar(args)
			rec = TransparencyD(f)
		case "Tr":
			var f float32
			f, err = parseScalar(args)
			rec = TransparencyTr(f)
		case "sharpness":
			var f float32
			f, err = parseScalar(args)
			rec = Sharpness(f)
		case "illum":
			var i int
			if len(args) != 1 {
				err = fmt.Errorf("%w: illum expects one value", ErrMalformed)
			} else if i, err = strconv.Atoi(args[0]); err != nil {
				err = fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			rec = IlluminationModel(i)
		default:
			core.LogDebug("%s:%d: skipping unsupported material record %q", file, lineNo, key)
			continue
		}
		if err != nil {
			return nil, parseErr(file, lineNo, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// mapPath takes the last field as the path so map options such as
// "-s 1 1 1" are ignored.
func mapPath(args []string, dir string, wrap func(string) MTLRecord) (MTLRecord, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: texture map without a path", ErrMalformed)
	}
	p := filepath.FromSlash(args[len(args)-1])
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return wrap(p), nil
}

func parseRGB(args []string) (RGB, error) {
	f, err := parseFloats(args, 1, 3)
	if err != nil {
		return RGB{}, err
	}
	if len(f) == 1 {
		return RGB{f[0], f[0], f[0]}, nil
	}
	if len(f) != 3 {
		return RGB{}, fmt.Errorf("%w: expected 1 or 3 colour values", ErrMalformed)
	}
	return RGB{f[0], f[1], f[2]}, nil
}

func parseScalar(args []string) (float32, error) {
	f, err := parseFloats(args, 1, 1)
	if err != nil {
		return 0, err
	}
	return f[0], nil
}

// BuildMaterials folds records into materials keyed by name. Records before
// the first newmtl are ignored.
func BuildMaterials(records []MTLRecord) map[string]*metadata.Material {
	out := make(map[string]*metadata.Material)
	var m *metadata.Material
	for _, rec := range records {
		if name, ok := rec.(NewMtl); ok {
			m = &metadata.Material{Name: string(name), DiffuseColour: [3]float32{1, 1, 1}, Dissolve: 1}
			out[m.Name] = m
			continue
		}
		if m == nil {
			continue
		}
		switch r := rec.(type) {
		case AmbientMap:
			m.AmbientMap = string(r)
		case DiffuseMap:
			m.DiffuseMap = string(r)
		case SpecularMap:
			m.SpecularMap = string(r)
		case BumpMap:
			m.BumpMap = string(r)
		case AmbientColor:
			m.AmbientColour = r
		case DiffuseColor:
			m.DiffuseColour = r
		case SpecularColor:
			m.SpecularColour = r
		case KeColor:
			m.EmissiveColour = r
		case TransmissionFilter:
			m.TransmissionFilter = r
		case OpticalDensity:
			m.OpticalDensity = float32(r)
		case SpecularExponent:
			m.Shininess = float32(r)
		case TransparencyD:
			m.Dissolve = float32(r)
		case TransparencyTr:
			m.Dissolve = 1 - float32(r)
		case IlluminationModel:
			m.IlluminationMode = int(r)
		case Sharpness:
			m.Sharpness = float32(r)
		}
	}
	return out
}
