package config

import (
	"fmt"
	"strings"
)

// Flags carries command line overrides. Zero values leave the config alone.
type Flags struct {
	Debug     bool
	Headless  bool
	TargetFPS int
	Modules   []string
}

func (f Flags) apply(cfg *Config) error {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Headless {
		cfg.Renderer.Headless = true
	}
	if f.TargetFPS > 0 {
		cfg.Frame.TargetFPS = f.TargetFPS
		cfg.Frame.LimitFrames = true
	}
	for _, spec := range f.Modules {
		m, err := ParseModule(spec)
		if err != nil {
			return err
		}
		cfg.Modules = upsert(cfg.Modules, m)
	}
	return nil
}

// ParseModule parses "name=path".
func ParseModule(spec string) (ModuleConfig, error) {
	name, path, ok := strings.Cut(spec, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return ModuleConfig{}, fmt.Errorf("invalid module %q, expected name=path", spec)
	}
	return ModuleConfig{Name: name, Path: path}, nil
}

func upsert(list []ModuleConfig, m ModuleConfig) []ModuleConfig {
	for i := range list {
		if list[i].Name == m.Name {
			list[i].Path = m.Path
			return list
		}
	}
	return append(list, m)
}
