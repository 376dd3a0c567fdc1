package metadata

import "image"

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

/**
 * @brief A bitmap font: glyph metrics into one or more atlas pages.
 */
type FontData struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[rune]FontGlyph
	Kernings   map[[2]rune]FontKerning
	/** @brief Horizontal advance used for tabs, derived from the space glyph. */
	TabXAdvance float32
}

// Kerning returns the kerning amount between a and b, zero when none.
func (f *FontData) Kerning(a, b rune) int16 {
	if k, ok := f.Kernings[[2]rune{a, b}]; ok {
		return k.Amount
	}
	return 0
}

type BitmapFontPage struct {
	ID    int
	File  string
	Image image.Image
}

type BitmapFontResourceData struct {
	Data  *FontData
	Pages []BitmapFontPage
}
