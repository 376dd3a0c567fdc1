package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/assets"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/modules"
	"github.com/spaghettifunk/anima-shell/engine/options"
	"github.com/spaghettifunk/anima-shell/engine/renderer"
	"github.com/spaghettifunk/anima-shell/engine/ui"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var ErrWrongStage = errors.New("engine is not in the expected stage")

// resizer is implemented by renderers that track the window size.
type resizer interface {
	Resize(width, height uint32)
}

type Engine struct {
	currentStage Stage
	config       *ApplicationConfig
	state        *State
	host         *modules.Host[*State]
	overlay      *ui.FPSOverlay
	isRunning    bool
	isSuspended  bool
	width        uint32
	height       uint32
	clock        *core.Clock
	lastTime     time.Duration
}

// New boots the engine. Modules are opened through opener; a nil opener
// allows static modules only.
func New(config *ApplicationConfig, opener modules.Opener[*State]) (*Engine, error) {
	e := &Engine{
		currentStage: EngineStageBooting,
		config:       config,
		state:        NewState(),
		clock:        core.NewClock(),
		isRunning:    true,
		width:        config.StartWidth,
		height:       config.StartHeight,
	}

	if opener == nil {
		opener = staticOnly{}
	}
	host, err := modules.NewHost(opener, config.Host)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	e.host = host

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	e.state.Assets = am

	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) State() *State {
	return e.state
}

func (e *Engine) Host() *modules.Host[*State] {
	return e.host
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Overlay() *ui.FPSOverlay {
	return e.overlay
}

// Register adds a native module and loads it right away.
func (e *Engine) Register(name, path string) error {
	return e.host.Register(name, path, e.state)
}

func (e *Engine) RegisterStatic(name string, lib modules.Library[*State]) error {
	return e.host.RegisterStatic(name, lib, e.state)
}

// AddRenderer attaches r. Renderers added after initialization are loaded
// immediately.
func (e *Engine) AddRenderer(r renderer.Renderer) error {
	if e.currentStage >= EngineStageInitialized {
		if err := r.Load(); err != nil {
			return err
		}
	}
	e.state.AddRenderer(r)
	return nil
}

// AddInputSource registers an auxiliary source drained after the renderers.
func (e *Engine) AddInputSource(src core.InputSource) {
	e.state.Input.AddSource(src)
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return fmt.Errorf("%w: initialize in stage %d", ErrWrongStage, e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	if e.config.OptionsPath != "" {
		// corrupt records fall back to defaults and are already logged
		e.state.Options, _ = options.Load(e.config.OptionsPath)
	}

	if e.config.AssetsDir != "" {
		if err := e.state.Assets.Initialize(e.config.AssetsDir); err != nil {
			return err
		}
		if e.config.FontPath != "" {
			if err := e.loadOverlay(); err != nil {
				core.LogWarn("fps overlay disabled: %s", err)
			}
		}
	}

	for _, r := range e.state.Renderers {
		if err := r.Load(); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized (%d renderers, %d modules)", len(e.state.Renderers), len(e.host.Modules()))
	return nil
}

func (e *Engine) loadOverlay() error {
	font, atlas, err := e.state.Assets.FontAtlas(filepath.ToSlash(e.config.FontPath))
	if err != nil {
		return err
	}
	// top left corner of a unit viewport in front of the camera
	e.overlay = ui.NewFPSOverlay(font, atlas, mgl32.Vec3{-1, 1, -1}, 1/float32(max(font.LineHeight, 1))*0.05)
	return nil
}

// Frame runs one iteration of the loop and reports whether the loop should
// keep going.
func (e *Engine) Frame(delta time.Duration) bool {
	s := e.state

	if err := e.host.CheckAll(s); err != nil {
		core.LogDebug("module check: %s", err)
	}

	s.Input.Gather(renderer.Sources(s.Renderers)...)
	for _, ev := range s.Input.Pending() {
		if core.IsQuit(ev) {
			core.LogInfo("quit requested by input source #%d, shutting down", ev.Origin())
			e.isRunning = false
			break
		}
		if resize, ok := ev.(core.WindowResize); ok {
			e.onResized(resize)
		}
		if uiEvent, ok := ui.FromInput(ev); ok {
			s.UIEvents.Publish(uiEvent)
		}
	}
	if !e.isRunning {
		s.Input.Clear()
		return false
	}
	if e.isSuspended {
		s.Input.Clear()
		return true
	}

	s.Delta = delta
	s.Assets.Update()
	e.host.UpdateAll(s, delta)

	if e.overlay != nil {
		e.overlay.Update(s.Metrics)
	}
	drawFPS := e.overlay != nil && s.Options.Has(options.DrawFPS)
	camera := s.ActiveCamera()
	for _, r := range s.Renderers {
		for _, layer := range s.Layers {
			r.QueueLayer(layer)
		}
		if drawFPS {
			r.QueueLayer(e.overlay.Layer())
		}
		if err := r.Present(camera); err != nil {
			core.LogError("renderer #%d present failed: %s", r.ID(), err)
		}
	}

	clear(s.Layers)
	s.Layers = s.Layers[:0]
	s.Input.Clear()
	s.Metrics.Update(delta)
	s.Frame++

	if s.quit {
		core.LogInfo("quit requested by a module, shutting down")
		e.isRunning = false
	}
	return e.isRunning
}

// Run drives Frame until a quit event, a module request or ctx ends it.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("%w: run in stage %d", ErrWrongStage, e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrame time.Duration
	if e.config.TargetFPS > 0 {
		targetFrame = time.Second / time.Duration(e.config.TargetFPS)
	}

	for e.isRunning {
		if ctx.Err() != nil {
			core.LogInfo("context cancelled, shutting down")
			break
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		if !e.Frame(delta) {
			break
		}

		// If there is time left, give it back to the OS.
		remaining := targetFrame - time.Since(frameStart)
		if e.config.LimitFrames && remaining > time.Millisecond {
			timer := time.NewTimer(remaining - time.Millisecond)
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
			timer.Stop()
		}

		e.lastTime = currentTime
	}
	e.isRunning = false
	return nil
}

// Shutdown unloads modules in reverse registration order, then renderers,
// then drops the world.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if err := e.host.Shutdown(e.state); err != nil {
		errs = append(errs, err)
	}
	for _, r := range e.state.Renderers {
		if err := r.Unload(); err != nil {
			errs = append(errs, fmt.Errorf("renderer #%d: %w", r.ID(), err))
		}
	}
	e.state.Layers = nil
	e.state.Input.Clear()
	e.state.World.Clear()
	if err := e.state.Assets.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onResized(ev core.WindowResize) {
	width, height := uint32(max(ev.Width, 0)), uint32(max(ev.Height, 0))
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	for _, r := range e.state.Renderers {
		if rs, ok := r.(resizer); ok {
			rs.Resize(width, height)
		}
	}
	aspect := float32(width) / float32(height)
	e.state.World.WithFacets(func(f *world.Facets) {
		f.Cameras(func(_ world.FacetRef, c *world.Camera) bool {
			c.UpdateAspect(aspect)
			return true
		})
	})
}

// staticOnly rejects every native module.
type staticOnly struct{}

func (staticOnly) Open(path string) (modules.Library[*State], error) {
	return nil, fmt.Errorf("%w: no native opener configured for %s", modules.ErrUnsupported, path)
}
