package ui

import (
	"testing"
	"time"

	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

func testFont() *metadata.FontData {
	return &metadata.FontData{
		Face:        "test",
		Size:        10,
		LineHeight:  12,
		AtlasSizeX:  64,
		AtlasSizeY:  64,
		TabXAdvance: 16,
		Glyphs: map[rune]metadata.FontGlyph{
			'A': {Codepoint: 'A', X: 0, Y: 0, Width: 8, Height: 10, XAdvance: 9},
			'V': {Codepoint: 'V', X: 8, Y: 0, Width: 8, Height: 10, XAdvance: 9},
			' ': {Codepoint: ' ', XAdvance: 4},
		},
		Kernings: map[[2]rune]metadata.FontKerning{
			{'A', 'V'}: {Codepoint0: 'A', Codepoint1: 'V', Amount: -2},
		},
	}
}

func TestGenerateTextMeshKerningAndLines(t *testing.T) {
	mesh := GenerateTextMesh(testFont(), "AV A\nA")
	// four visible glyphs, space is invisible
	if mesh.VertexCount() != 16 || mesh.IndexCount() != 24 {
		t.Fatalf("mesh\nhave %d vertices %d indices\nwant 16 and 24", mesh.VertexCount(), mesh.IndexCount())
	}
	// V starts at 9 - 2 kerning
	if x := mesh.Vertices[4].Position[0]; x != 7 {
		t.Fatalf("kerned x\nhave %v\nwant 7", x)
	}
	// third glyph after V(9) and space(4): 7 + 9 + 4
	if x := mesh.Vertices[8].Position[0]; x != 20 {
		t.Fatalf("x after space\nhave %v\nwant 20", x)
	}
	// new line resets x and moves down one line
	last := mesh.Vertices[12].Position
	if last[0] != 0 || last[1] != 12 {
		t.Fatalf("second line origin\nhave %v\nwant (0,12)", last)
	}
	if uv := mesh.Vertices[1].UV; uv[0] != 8.0/64 || uv[1] != 10.0/64 {
		t.Fatalf("uv\nhave %v", uv)
	}
}

func TestFPSOverlayRebuildsOnChange(t *testing.T) {
	o := NewFPSOverlay(testFont(), nil, [3]float32{}, 0.01)
	m := core.NewMetrics()
	o.Update(m)
	first := o.Layer().Payload().Mesh
	o.Update(m)
	if o.Layer().Payload().Mesh != first {
		t.Fatal("mesh rebuilt without a text change")
	}
	for i := 0; i < 61; i++ {
		m.Update(20 * time.Millisecond)
	}
	o.Update(m)
	if o.Layer().Payload().Mesh == first {
		t.Fatalf("mesh not rebuilt, text %q", o.Text())
	}
}

func TestFromInput(t *testing.T) {
	id := core.NextIdentity()
	e, ok := FromInput(core.MouseDown{Source: id, Button: core.BUTTON_LEFT, X: 1, Y: 2})
	if c, isClick := e.(Clicked); !ok || !isClick || c.Target() != id || c.X != 1 {
		t.Fatalf("MouseDown\nhave %#v", e)
	}
	if lost, ok := FromInput(core.WindowFocusLost{Source: id}); !ok || lost.Target() != id {
		t.Fatalf("focus lost\nhave %#v\nwant target %v", lost, id)
	}
	gained, ok := FromInput(core.WindowFocusGained{Source: id})
	if _, isGained := gained.(GainedFocus); !ok || !isGained || gained.Target() != id {
		t.Fatalf("focus gained\nhave %#v\nwant target %v", gained, id)
	}
	if _, ok := FromInput(core.KeyDown{Source: id}); ok {
		t.Fatal("key press mapped to a UI event")
	}
}
