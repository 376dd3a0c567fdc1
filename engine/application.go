package engine

import (
	"github.com/spaghettifunk/anima-shell/engine/modules"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name string
	// Frames per second the loop paces to when LimitFrames is set.
	TargetFPS   int
	LimitFrames bool
	// Directory watched by the asset manager. Empty disables assets.
	AssetsDir string
	// Bitmap font (.fnt) used by the FPS overlay, relative to AssetsDir.
	FontPath string
	// Persisted options record. Empty keeps the defaults in memory only.
	OptionsPath string
	Host        modules.Config
}
