package loaders

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const redMTL = `# materials
newmtl red
Ka 0.1 0.1 0.1
Kd 1 0 0
Ks 0.5
Ke 0 0 0
Tf 1 1 1
Ni 1.45
Ns 96
Tr 0.25
illum 2
sharpness 60
map_Kd -s 1 1 1 textures/red.png
map_Bump normal.png

newmtl blue
Kd 0 0 1
d 0.5
`

func TestParseAndBuildMaterials(t *testing.T) {
	file := filepath.Join("assets", "models", "quad.mtl")
	records, err := ParseMTL(strings.NewReader(redMTL), file)
	if err != nil {
		t.Fatal(err)
	}
	mats := BuildMaterials(records)
	if len(mats) != 2 {
		t.Fatalf("materials\nhave %d\nwant 2", len(mats))
	}

	red := mats["red"]
	if red.DiffuseColour != [3]float32{1, 0, 0} {
		t.Fatalf("Kd\nhave %v", red.DiffuseColour)
	}
	if red.SpecularColour != [3]float32{0.5, 0.5, 0.5} {
		t.Fatalf("single value Ks\nhave %v", red.SpecularColour)
	}
	if red.Shininess != 96 || red.IlluminationMode != 2 || red.Sharpness != 60 {
		t.Fatalf("scalars\nhave Ns=%v illum=%v sharpness=%v", red.Shininess, red.IlluminationMode, red.Sharpness)
	}
	if red.Dissolve != 0.75 {
		t.Fatalf("Tr\nhave %v\nwant 0.75", red.Dissolve)
	}
	wantMap := filepath.Join("assets", "models", "textures", "red.png")
	if red.DiffuseMap != wantMap {
		t.Fatalf("map_Kd\nhave %s\nwant %s", red.DiffuseMap, wantMap)
	}
	if red.BumpMap != filepath.Join("assets", "models", "normal.png") {
		t.Fatalf("map_Bump\nhave %s", red.BumpMap)
	}
	if mats["blue"].Dissolve != 0.5 {
		t.Fatalf("d\nhave %v", mats["blue"].Dissolve)
	}
}

func TestParseMTLError(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("newmtl a\nKd 1 x 0\n"), "bad.mtl")
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 2 || !errors.Is(err, ErrMalformed) {
		t.Fatalf("ParseMTL\nhave %v\nwant ParseError at line 2", err)
	}
	if !strings.Contains(perr.Error(), "bad.mtl:2") {
		t.Fatalf("message %q does not name the line", perr.Error())
	}
}
