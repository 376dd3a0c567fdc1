package engine

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/modules"
	"github.com/spaghettifunk/anima-shell/engine/renderer"
	"github.com/spaghettifunk/anima-shell/engine/renderer/headless"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-shell/engine/ui"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

type queueSource struct {
	id     core.Identity
	frames [][]core.InputEvent
}

func (q *queueSource) ID() core.Identity { return q.id }

func (q *queueSource) Drain() []core.InputEvent {
	if len(q.frames) == 0 {
		return nil
	}
	out := q.frames[0]
	q.frames = q.frames[1:]
	return out
}

// recorder is a renderer that logs the calls it receives.
type recorder struct {
	id  core.Identity
	log *[]string
}

func (r *recorder) ID() core.Identity              { return r.id }
func (r *recorder) Load() error                    { *r.log = append(*r.log, "renderer:load"); return nil }
func (r *recorder) Unload() error                  { *r.log = append(*r.log, "renderer:unload"); return nil }
func (r *recorder) QueueLayer(metadata.SceneGraph) {}
func (r *recorder) DrainInput() []core.InputEvent  { return nil }
func (r *recorder) Present(*world.Camera) error {
	*r.log = append(*r.log, "renderer:present")
	return nil
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(&ApplicationConfig{
		Name:        "test",
		StartWidth:  800,
		StartHeight: 600,
		Host:        modules.Config{StagingDir: t.TempDir()},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Shutdown() })
	return e
}

// sceneModule spawns a camera and a cube on load and pushes the cube's
// layer every tick.
func sceneModule(ticks *int) *modules.StaticLibrary[*State] {
	var layer metadata.SceneGraph
	return modules.NewStaticLibrary(
		func(s *State) error {
			cam := world.NewCamera()
			cam.SetPos(mgl32.Vec3{0, 0, -5})
			cube := metadata.NewModel("cube", metadata.GenerateCube("cube", 1, 1, 1, 1, 1), nil)
			layer = metadata.NewSceneGraph(cube)
			s.World.StartThing().WithCamera(cam).WithModel(mgl32.Ident4(), cube).Build()
			return nil
		},
		func(s *State, _ time.Duration) error {
			*ticks++
			s.PushLayer(layer)
			return nil
		},
		nil,
	)
}

func TestFrameTicksModulesAndPresents(t *testing.T) {
	e := newEngine(t)
	backend := headless.New()
	r := renderer.NewSceneRenderer(renderer.SceneRendererConfig{Name: "test", Width: 800, Height: 600}, backend, nil)
	if err := e.AddRenderer(r); err != nil {
		t.Fatal(err)
	}
	ticks := 0
	if err := e.RegisterStatic("scene", sceneModule(&ticks)); err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if !e.Frame(16 * time.Millisecond) {
			t.Fatalf("frame %d stopped the loop", i)
		}
	}
	if ticks != 3 {
		t.Fatalf("module ticks\nhave %d\nwant 3", ticks)
	}
	frames, uploads, _ := backend.Stats()
	if frames != 3 || uploads != 1 {
		t.Fatalf("backend stats\nhave frames=%d uploads=%d\nwant frames=3 uploads=1", frames, uploads)
	}
	if draws := backend.LastFrame(); len(draws) != 1 {
		t.Fatalf("draws in last frame\nhave %d\nwant 1", len(draws))
	}
	if len(e.State().Layers) != 0 {
		t.Fatal("layers not cleared after the frame")
	}
	if e.State().Frame != 3 || e.State().Delta != 16*time.Millisecond {
		t.Fatalf("frame bookkeeping\nhave frame=%d delta=%v", e.State().Frame, e.State().Delta)
	}
}

func TestQuitEventStopsBeforeUpdate(t *testing.T) {
	e := newEngine(t)
	src := &queueSource{id: core.NextIdentity()}
	src.frames = [][]core.InputEvent{nil, {core.WindowClose{Source: src.id}}}
	e.AddInputSource(src)
	ticks := 0
	e.RegisterStatic("scene", sceneModule(&ticks))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	if !e.Frame(time.Millisecond) {
		t.Fatal("first frame stopped the loop")
	}
	if e.Frame(time.Millisecond) {
		t.Fatal("WindowClose did not stop the loop")
	}
	if ticks != 1 {
		t.Fatalf("module ticks\nhave %d\nwant 1", ticks)
	}
	if e.State().Input.HasPending() {
		t.Fatal("input left pending after quit")
	}
}

func TestRunStopsOnModuleRequest(t *testing.T) {
	e := newEngine(t)
	e.config.TargetFPS = 1000
	e.config.LimitFrames = true
	ticks := 0
	e.RegisterStatic("quitter", modules.NewStaticLibrary(nil, func(s *State, _ time.Duration) error {
		ticks++
		if ticks == 5 {
			s.RequestQuit()
		}
		return nil
	}, nil))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ticks != 5 {
		t.Fatalf("module ticks\nhave %d\nwant 5", ticks)
	}
	if e.Stage() != EngineStageRunning {
		t.Fatalf("stage\nhave %d\nwant %d", e.Stage(), EngineStageRunning)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	e := newEngine(t)
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if e.State().Frame != 0 {
		t.Fatalf("frames ran after cancel: %d", e.State().Frame)
	}
}

func TestRunRequiresInitialize(t *testing.T) {
	e := newEngine(t)
	if err := e.Run(context.Background()); !errors.Is(err, ErrWrongStage) {
		t.Fatalf("Run before Initialize\nhave %v\nwant %v", err, ErrWrongStage)
	}
}

func TestShutdownOrder(t *testing.T) {
	e := newEngine(t)
	var log []string
	rec := &recorder{id: core.NextIdentity(), log: &log}
	e.AddRenderer(rec)
	for _, name := range []string{"a", "b"} {
		e.RegisterStatic(name, modules.NewStaticLibrary(
			func(*State) error { log = append(log, name+":load"); return nil },
			func(*State, time.Duration) error { log = append(log, name+":update"); return nil },
			func(*State) error { log = append(log, name+":unload"); return nil },
		))
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	e.State().World.StartThing().WithHealth(world.NewHealth(10)).Build()
	e.Frame(time.Millisecond)
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"a:load", "b:load", "renderer:load",
		"a:update", "b:update", "renderer:present",
		"b:unload", "a:unload", "renderer:unload",
	}
	if !slices.Equal(log, want) {
		t.Fatalf("call order\nhave %v\nwant %v", log, want)
	}
	if e.State().World.Len() != 0 {
		t.Fatal("world not dropped at shutdown")
	}
	if err := e.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestResizeSuspendsAndResumes(t *testing.T) {
	e := newEngine(t)
	src := &queueSource{id: core.NextIdentity()}
	src.frames = [][]core.InputEvent{
		{core.WindowResize{Source: src.id, Width: 0, Height: 0}},
		nil,
		{core.WindowResize{Source: src.id, Width: 1000, Height: 500}},
	}
	e.AddInputSource(src)
	backend := headless.New()
	r := renderer.NewSceneRenderer(renderer.SceneRendererConfig{Name: "test", Width: 800, Height: 600}, backend, nil)
	e.AddRenderer(r)
	ticks := 0
	e.RegisterStatic("scene", sceneModule(&ticks))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	e.Frame(time.Millisecond)
	e.Frame(time.Millisecond)
	if ticks != 0 {
		t.Fatalf("modules ticked while minimized: %d", ticks)
	}
	e.Frame(time.Millisecond)
	if ticks != 1 {
		t.Fatalf("module ticks after restore\nhave %d\nwant 1", ticks)
	}
	if w, h := e.GetFramebufferSize(); w != 1000 || h != 500 {
		t.Fatalf("framebuffer\nhave %dx%d\nwant 1000x500", w, h)
	}
	if _, _, recreates := backend.Stats(); recreates != 1 {
		t.Fatalf("recreates\nhave %d\nwant 1", recreates)
	}
	cam := e.State().ActiveCamera()
	if cam == nil || cam.Perspective.Aspect != 2 {
		t.Fatalf("camera aspect not updated: %+v", cam)
	}
}

func TestInputBecomesUIEvents(t *testing.T) {
	e := newEngine(t)
	src := &queueSource{id: core.NextIdentity()}
	src.frames = [][]core.InputEvent{{
		core.WindowFocusGained{Source: src.id},
		core.MouseDown{Source: src.id, Button: core.BUTTON_RIGHT, X: 4, Y: 2},
		core.KeyDown{Source: src.id, Key: core.KEY_W},
	}}
	e.AddInputSource(src)

	var got []ui.Event
	h := core.NewHandler(func(ev ui.Event) { got = append(got, ev) })
	e.State().UIEvents.AddHandler("test", h)

	var seen []core.InputEvent
	e.RegisterStatic("reader", modules.NewStaticLibrary(nil, func(s *State, _ time.Duration) error {
		seen = append(seen, s.Input.Pending()...)
		return nil
	}, nil))
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	e.Frame(time.Millisecond)

	want := []ui.Event{
		ui.GainedFocus{ID: src.id},
		ui.Clicked{ID: src.id, Button: core.BUTTON_RIGHT, X: 4, Y: 2},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("ui events\nhave %#v\nwant %#v", got, want)
	}
	if len(seen) != 3 {
		t.Fatalf("modules saw %d input events, want 3", len(seen))
	}
}

func TestNativeModulesNeedAnOpener(t *testing.T) {
	e := newEngine(t)
	if err := e.Register("native", "/nonexistent/libnative.so"); err == nil {
		t.Fatal("Register without an opener succeeded")
	}
}

func TestRemoveRenderer(t *testing.T) {
	s := NewState()
	var log []string
	a := &recorder{id: core.NextIdentity(), log: &log}
	b := &recorder{id: core.NextIdentity(), log: &log}
	s.AddRenderer(a)
	s.AddRenderer(b)
	if r, ok := s.RemoveRenderer(a.ID()); !ok || r != renderer.Renderer(a) {
		t.Fatal("RemoveRenderer did not return the removed renderer")
	}
	if len(s.Renderers) != 1 || s.Renderers[0] != renderer.Renderer(b) {
		t.Fatalf("renderers left\nhave %v", s.Renderers)
	}
	if _, ok := s.RemoveRenderer(a.ID()); ok {
		t.Fatal("removed the same renderer twice")
	}
}
