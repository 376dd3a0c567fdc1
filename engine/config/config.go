// Package config loads the shell configuration from TOML or YAML.
package config

import (
	"time"
)

// Config holds every shell setting.
type Config struct {
	App      AppConfig      `toml:"app" yaml:"app"`
	Frame    FrameConfig    `toml:"frame" yaml:"frame"`
	Renderer RendererConfig `toml:"renderer" yaml:"renderer"`
	Host     HostConfig     `toml:"host" yaml:"host"`
	Modules  []ModuleConfig `toml:"modules" yaml:"modules"`
	Assets   AssetsConfig   `toml:"assets" yaml:"assets"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Options  OptionsConfig  `toml:"options" yaml:"options"`
}

// AppConfig holds window settings.
type AppConfig struct {
	Name   string `toml:"name" yaml:"name"`
	PosX   uint32 `toml:"pos_x" yaml:"pos_x"`
	PosY   uint32 `toml:"pos_y" yaml:"pos_y"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

// FrameConfig holds pacing. TargetFPS is advisory; frames are only delayed
// when LimitFrames is set.
type FrameConfig struct {
	TargetFPS   int  `toml:"target_fps" yaml:"target_fps"`
	LimitFrames bool `toml:"limit_frames" yaml:"limit_frames"`
}

type RendererConfig struct {
	Headless       bool     `toml:"headless" yaml:"headless"`
	DrawMode       string   `toml:"draw_mode" yaml:"draw_mode"`
	Scale          float32  `toml:"scale" yaml:"scale"`
	AcquireTimeout Duration `toml:"acquire_timeout" yaml:"acquire_timeout"`
}

type HostConfig struct {
	StagingDir  string `toml:"staging_dir" yaml:"staging_dir"`
	Watch       bool   `toml:"watch" yaml:"watch"`
	MaxFailures int    `toml:"max_failures" yaml:"max_failures"`
}

// ModuleConfig names a native module to register at startup.
type ModuleConfig struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

type AssetsConfig struct {
	Dir  string `toml:"dir" yaml:"dir"`
	Font string `toml:"font" yaml:"font"`
}

type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days"`
}

type OptionsConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:   "Anima Shell",
			PosX:   100,
			PosY:   100,
			Width:  1280,
			Height: 720,
		},
		Frame: FrameConfig{
			TargetFPS:   60,
			LimitFrames: false,
		},
		Renderer: RendererConfig{
			Headless:       false,
			DrawMode:       "colored",
			Scale:          1,
			AcquireTimeout: Duration(500 * time.Microsecond),
		},
		Host: HostConfig{
			Watch:       true,
			MaxFailures: 5,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Options: OptionsConfig{
			Path: "options.bin",
		},
	}
}

// Duration is a time.Duration written as a Go duration string ("500us").
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
