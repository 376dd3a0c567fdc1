package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-shell/engine"
	"github.com/spaghettifunk/anima-shell/engine/config"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/modules"
	"github.com/spaghettifunk/anima-shell/engine/platform"
	"github.com/spaghettifunk/anima-shell/engine/renderer"
	"github.com/spaghettifunk/anima-shell/engine/renderer/headless"
	"github.com/spaghettifunk/anima-shell/testbed"
)

var (
	flagModules   []string
	flagHeadless  bool
	flagFPS       int
	flagNoTestbed bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the shell",
	Long: `Run the shell until the window is closed, a module asks to quit or the
process receives SIGINT/SIGTERM.

Native modules are shared libraries exporting <name>_load, <name>_update and
<name>_unload. Rebuilding one while the shell runs swaps it in on the next
frame.

Controls (testbed):
  W/A/S/D     - Move
  Q/E         - Up/Down
  Arrows      - Look around
  Click       - Damage the target
  P           - Log the camera position
  Esc         - Quit`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	runCmd.Flags().StringArrayVar(&flagModules, "module", nil, "Native module as name=path (repeatable)")
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a window")
	runCmd.Flags().IntVar(&flagFPS, "fps", 0, "Limit the loop to this many frames per second")
	runCmd.Flags().BoolVar(&flagNoTestbed, "no-testbed", false, "Do not register the built-in testbed module")
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig, config.Flags{
		Debug:     flagDebug,
		Headless:  flagHeadless,
		TargetFPS: flagFPS,
		Modules:   flagModules,
	})
	if err != nil {
		return err
	}

	core.LogInitialize(core.LogConfig{
		Level:      core.ParseLogLevel(cfg.Logging.Level),
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer core.LogShutdown()

	opener := modules.NewDynamicOpener[*engine.State]()
	e, err := engine.New(&engine.ApplicationConfig{
		StartPosX:   cfg.App.PosX,
		StartPosY:   cfg.App.PosY,
		StartWidth:  cfg.App.Width,
		StartHeight: cfg.App.Height,
		Name:        cfg.App.Name,
		TargetFPS:   cfg.Frame.TargetFPS,
		LimitFrames: cfg.Frame.LimitFrames,
		AssetsDir:   cfg.Assets.Dir,
		FontPath:    cfg.Assets.Font,
		OptionsPath: cfg.Options.Path,
		Host: modules.Config{
			StagingDir:  cfg.Host.StagingDir,
			Watch:       cfg.Host.Watch,
			MaxFailures: cfg.Host.MaxFailures,
		},
	}, opener)
	if err != nil {
		return err
	}
	defer opener.ReleaseState(e.State())

	var window core.InputSource
	if !cfg.Renderer.Headless {
		w, err := platform.New()
		if err != nil {
			return err
		}
		if err := w.Startup(cfg.App.Name, cfg.App.PosX, cfg.App.PosY, cfg.App.Width, cfg.App.Height); err != nil {
			return err
		}
		defer w.Shutdown()
		window = w
		e.AddInputSource(platform.NewJoysticks())
	}

	// No GPU backend ships with the shell; draws are recorded by the
	// headless backend behind the window.
	r := renderer.NewSceneRenderer(renderer.SceneRendererConfig{
		Name:           cfg.App.Name,
		Width:          cfg.App.Width,
		Height:         cfg.App.Height,
		Mode:           renderer.ParseDrawMode(cfg.Renderer.DrawMode),
		Scale:          cfg.Renderer.Scale,
		AcquireTimeout: cfg.Renderer.AcquireTimeout.Std(),
	}, headless.New(), window)
	if err := e.AddRenderer(r); err != nil {
		return err
	}

	if !flagNoTestbed {
		if err := e.RegisterStatic(testbed.Name, testbed.New().Library()); err != nil {
			return err
		}
	}
	for _, m := range cfg.Modules {
		// a module that fails to load is retried every frame
		if err := e.Register(m.Name, m.Path); err != nil {
			core.LogWarn("module %s: %s", m.Name, err)
		}
	}

	if err := e.Initialize(); err != nil {
		return errors.Join(err, e.Shutdown())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := e.Run(ctx)
	return errors.Join(runErr, e.Shutdown())
}
