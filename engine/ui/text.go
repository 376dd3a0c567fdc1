package ui

import (
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

// GenerateTextMesh lays out text with font and returns one quad per visible
// glyph. Positions are in font pixels with y growing downwards from the top
// of the first line; uvs address the atlas.
func GenerateTextMesh(font *metadata.FontData, text string) *metadata.Mesh {
	mesh := metadata.NewMesh("text")
	if font == nil {
		return mesh
	}

	atlasW, atlasH := float32(font.AtlasSizeX), float32(font.AtlasSizeY)
	if atlasW == 0 {
		atlasW = 1
	}
	if atlasH == 0 {
		atlasH = 1
	}

	var x, y float32
	var prev rune
	for _, c := range text {
		switch c {
		case '\n':
			x = 0
			y += float32(font.LineHeight)
			prev = 0
			continue
		case '\t':
			x += font.TabXAdvance
			prev = 0
			continue
		}

		g, ok := font.Glyphs[c]
		if !ok {
			// Unknown codepoints advance like a space when possible.
			if space, ok := font.Glyphs[' ']; ok {
				x += float32(space.XAdvance)
			}
			prev = 0
			continue
		}
		if prev != 0 {
			x += float32(font.Kerning(prev, c))
		}

		if g.Width > 0 && g.Height > 0 {
			minX := x + float32(g.XOffset)
			minY := y + float32(g.YOffset)
			maxX := minX + float32(g.Width)
			maxY := minY + float32(g.Height)

			tminX := float32(g.X) / atlasW
			tmaxX := float32(g.X+g.Width) / atlasW
			tminY := float32(g.Y) / atlasH
			tmaxY := float32(g.Y+g.Height) / atlasH

			base := mesh.AppendVertex(metadata.Vertex{Position: [3]float32{minX, minY, 0}, UV: [3]float32{tminX, tminY, 0}, Normal: [3]float32{0, 0, 1}})
			mesh.AppendVertex(metadata.Vertex{Position: [3]float32{maxX, maxY, 0}, UV: [3]float32{tmaxX, tmaxY, 0}, Normal: [3]float32{0, 0, 1}})
			mesh.AppendVertex(metadata.Vertex{Position: [3]float32{minX, maxY, 0}, UV: [3]float32{tminX, tmaxY, 0}, Normal: [3]float32{0, 0, 1}})
			mesh.AppendVertex(metadata.Vertex{Position: [3]float32{maxX, minY, 0}, UV: [3]float32{tmaxX, tminY, 0}, Normal: [3]float32{0, 0, 1}})
			mesh.AppendTriangle(base+2, base+1, base+0)
			mesh.AppendTriangle(base+3, base+0, base+1)
		}
		x += float32(g.XAdvance)
		prev = c
	}
	return mesh
}
