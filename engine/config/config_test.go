package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const tomlContent = `
[app]
name = "demo"
width = 800
height = 600

[frame]
target_fps = 30

[renderer]
draw_mode = "wireframe"
acquire_timeout = "2ms"

[host]
watch = false
max_failures = 2

[[modules]]
name = "gameplay"
path = "target/libgameplay.so"

[logging]
level = "warn"
`

const yamlContent = `
app:
  name: demo
  width: 1024
renderer:
  headless: true
  acquire_timeout: 750us
modules:
  - name: gameplay
    path: target/libgameplay.so
  - name: ai
    path: target/libai.so
`

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.App.Width != 1280 || cfg.App.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if cfg.Renderer.AcquireTimeout.Std() != 500*time.Microsecond {
		t.Errorf("expected acquire timeout 500us, got %v", cfg.Renderer.AcquireTimeout.Std())
	}
	if cfg.Host.MaxFailures != 5 || !cfg.Host.Watch {
		t.Errorf("unexpected host defaults %+v", cfg.Host)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	if err := os.WriteFile(path, []byte(tomlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, Flags{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Name != "demo" || cfg.App.Width != 800 || cfg.App.Height != 600 {
		t.Errorf("app\nhave %+v", cfg.App)
	}
	// untouched sections keep their defaults
	if cfg.App.PosX != 100 || cfg.Assets.Dir != "assets" {
		t.Errorf("defaults lost: pos_x=%d assets=%q", cfg.App.PosX, cfg.Assets.Dir)
	}
	if cfg.Renderer.AcquireTimeout.Std() != 2*time.Millisecond {
		t.Errorf("acquire timeout\nhave %v\nwant 2ms", cfg.Renderer.AcquireTimeout.Std())
	}
	if cfg.Host.Watch || cfg.Host.MaxFailures != 2 {
		t.Errorf("host\nhave %+v", cfg.Host)
	}
	if len(cfg.Modules) != 1 || cfg.Modules[0].Name != "gameplay" {
		t.Errorf("modules\nhave %+v", cfg.Modules)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level\nhave %q\nwant warn", cfg.Logging.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, Flags{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Width != 1024 || !cfg.Renderer.Headless {
		t.Errorf("values not loaded: %+v %+v", cfg.App, cfg.Renderer)
	}
	if cfg.Renderer.AcquireTimeout.Std() != 750*time.Microsecond {
		t.Errorf("acquire timeout\nhave %v\nwant 750us", cfg.Renderer.AcquireTimeout.Std())
	}
	if len(cfg.Modules) != 2 {
		t.Errorf("modules\nhave %+v", cfg.Modules)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	if err := os.WriteFile(path, []byte(tomlContent), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, Flags{
		Debug:     true,
		TargetFPS: 144,
		Modules:   []string{"gameplay=other/lib.so", "hud = target/libhud.so"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
	if cfg.Frame.TargetFPS != 144 || !cfg.Frame.LimitFrames {
		t.Errorf("frame\nhave %+v", cfg.Frame)
	}
	want := []ModuleConfig{{"gameplay", "other/lib.so"}, {"hud", "target/libhud.so"}}
	if len(cfg.Modules) != len(want) || cfg.Modules[0] != want[0] || cfg.Modules[1] != want[1] {
		t.Errorf("modules\nhave %+v\nwant %+v", cfg.Modules, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.toml"), Flags{}); err == nil {
		t.Error("expected error loading missing file, got nil")
	}

	ini := filepath.Join(dir, "anima.ini")
	os.WriteFile(ini, []byte("x=1"), 0o644)
	if _, err := Load(ini, Flags{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected %v, got %v", ErrUnknownFormat, err)
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("[app\nwidth = "), 0o644)
	if _, err := Load(bad, Flags{}); err == nil {
		t.Error("expected error loading invalid TOML, got nil")
	}

	if _, err := Load("", Flags{Modules: []string{"no-path"}}); err == nil {
		t.Error("expected error for malformed module flag")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	if path := findConfigFile(dir); path != "" {
		t.Errorf("expected no config, got %s", path)
	}
	os.WriteFile(filepath.Join(dir, "anima.yml"), []byte("app:\n  width: 1\n"), 0o644)
	if path := findConfigFile(dir); filepath.Base(path) != "anima.yml" {
		t.Errorf("expected anima.yml, got %q", path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.toml", "out.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := Default()
		cfg.Modules = []ModuleConfig{{Name: "m", Path: "m.so"}}
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		loaded, err := Load(path, Flags{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if loaded.Renderer.AcquireTimeout != cfg.Renderer.AcquireTimeout || len(loaded.Modules) != 1 {
			t.Errorf("%s: round trip lost values: %+v", name, loaded)
		}
	}
}
