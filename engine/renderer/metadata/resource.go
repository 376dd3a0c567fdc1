package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	ResourceTypeNone ResourceType = iota
	/** @brief Image resource type, decoded into an image.Image. */
	ResourceTypeImage
	/** @brief Material library resource type. */
	ResourceTypeMaterial
	/** @brief Model resource type, parsed into a *Model. */
	ResourceTypeModel
	/** @brief Bitmap font resource type. */
	ResourceTypeBitmapFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeImage:
		return "image"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeBitmapFont:
		return "bitmap-font"
	}
	return "none"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the source file in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
