package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

type BitmapFontLoader struct {
	Textures TextureLoader
}

type BitmapFontFileType int

const (
	BITMAP_FONT_FILE_TYPE_NOT_FOUND BitmapFontFileType = iota
	BITMAP_FONT_FILE_TYPE_FNT
)

func bitmapFontType(path string) BitmapFontFileType {
	switch filepath.Ext(path) {
	case ".fnt":
		return BITMAP_FONT_FILE_TYPE_FNT
	}
	return BITMAP_FONT_FILE_TYPE_NOT_FOUND
}

func (fl *BitmapFontLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	if bitmapFontType(path) == BITMAP_FONT_FILE_TYPE_NOT_FOUND {
		return nil, fmt.Errorf("%w: bitmap font %s", ErrUnknownFormat, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	resourceData, err := fl.importFNTFile(path)
	if err != nil {
		return nil, err
	}

	return &metadata.Resource{
		Type:     metadata.ResourceTypeBitmapFont,
		Name:     resourceData.Data.Face,
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     resourceData,
	}, nil
}

func (fl *BitmapFontLoader) Unload(resource *metadata.Resource) error {
	if resource.Data != nil {
		data := resource.Data.(*metadata.BitmapFontResourceData)
		data.Data.Glyphs = nil
		data.Data.Kernings = nil
		data.Pages = nil
		resource.Data = nil
		resource.DataSize = 0
		resource.FullPath = ""
	}
	return nil
}

func (fl *BitmapFontLoader) importFNTFile(fntFileName string) (*metadata.BitmapFontResourceData, error) {
	font, err := bmfont.Load(fntFileName)
	if err != nil {
		return nil, err
	}

	desc := font.Descriptor
	outData := &metadata.BitmapFontResourceData{
		Data: &metadata.FontData{
			Face:       desc.Info.Face,
			Size:       uint32(desc.Info.Size),
			LineHeight: int32(desc.Common.LineHeight),
			Baseline:   int32(desc.Common.Base),
			AtlasSizeX: int32(desc.Common.ScaleW),
			AtlasSizeY: int32(desc.Common.ScaleH),
			Glyphs:     make(map[rune]metadata.FontGlyph, len(desc.Chars)),
			Kernings:   make(map[[2]rune]metadata.FontKerning, len(desc.Kerning)),
		},
		Pages: make([]metadata.BitmapFontPage, 0, len(desc.Pages)),
	}

	for _, p := range desc.Pages {
		page := metadata.BitmapFontPage{ID: p.ID, File: filepath.Join(filepath.Dir(fntFileName), p.File)}
		if res, err := fl.Textures.Load(page.File, nil); err == nil {
			page.Image = res.Data.(*TextureData).Image
		}
		outData.Pages = append(outData.Pages, page)
	}

	for _, g := range desc.Chars {
		outData.Data.Glyphs[g.ID] = metadata.FontGlyph{
			Codepoint: g.ID,
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    uint8(g.Page),
		}
	}

	for p, k := range desc.Kerning {
		outData.Data.Kernings[[2]rune{p.First, p.Second}] = metadata.FontKerning{
			Codepoint0: p.First,
			Codepoint1: p.Second,
			Amount:     int16(k.Amount),
		}
	}

	if space, ok := outData.Data.Glyphs[' ']; ok {
		outData.Data.TabXAdvance = float32(space.XAdvance) * 4
	} else {
		outData.Data.TabXAdvance = float32(outData.Data.Size) * 4
	}

	return outData, nil
}
