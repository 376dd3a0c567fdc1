package loaders

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
)

type TextureLoader struct{}

type TextureData struct {
	Image  image.Image
	Format string
}

func (tl *TextureLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(file) // png, jpeg, bmp, tiff, webp
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeImage,
		Name:     info.Name(),
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     &TextureData{Image: img, Format: format},
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}
