package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown config format")

var candidates = []string{"anima.toml", "anima.yaml", "anima.yml"}

// Load loads configuration with priority: defaults < file < flags. An empty
// path searches the working directory.
func Load(path string, flags Flags) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile(".")
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := flags.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(dir string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFromFile merges the file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// SaveTo writes the config, picking the format from the extension.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(c)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
