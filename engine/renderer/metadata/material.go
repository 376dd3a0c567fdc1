package metadata

import (
	"image"
	"image/color"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world. The core only samples the diffuse image;
 * the remaining values are carried for renderer backends that want them.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief The diffuse texture, already decoded. Can be nil. */
	Diffuse image.Image
	/** @brief Resolved paths of the texture maps. */
	DiffuseMap  string
	AmbientMap  string
	SpecularMap string
	BumpMap     string

	AmbientColour  [3]float32
	DiffuseColour  [3]float32
	SpecularColour [3]float32
	EmissiveColour [3]float32
	/** @brief Colour filter applied to light passing through the surface. */
	TransmissionFilter [3]float32
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess        float32
	OpticalDensity   float32
	Dissolve         float32
	IlluminationMode int
	Sharpness        float32
}

// DefaultMaterial returns a white, opaque material with a 1x1 diffuse image.
func DefaultMaterial() *Material {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return &Material{
		Name:          DefaultMaterialName,
		Diffuse:       img,
		DiffuseColour: [3]float32{1, 1, 1},
		Dissolve:      1,
	}
}
