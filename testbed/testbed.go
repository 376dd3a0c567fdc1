// Package testbed is a built-in module used to try the shell out: a free
// flying camera over three nested, spinning cubes and a target that can be
// clicked to death.
package testbed

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-shell/engine"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/modules"
	"github.com/spaghettifunk/anima-shell/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-shell/engine/ui"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

const (
	Name = "testbed"

	cameraMoveSpeed   = 50.0
	cameraRotateSpeed = 1.0
	clickDamage       = 10
)

type Testbed struct {
	camera *world.Thing
	target *world.Thing

	layer    metadata.SceneGraph
	cubes    [3]*metadata.Model
	rotation float32

	held    map[core.KeyCode]bool
	onUI    *core.Handler[ui.Event]
	pending int
}

func New() *Testbed {
	return &Testbed{held: make(map[core.KeyCode]bool)}
}

// Library exposes the testbed as a static module.
func (t *Testbed) Library() *modules.StaticLibrary[*engine.State] {
	return modules.NewStaticLibrary(t.Load, t.Update, t.Unload)
}

func (t *Testbed) Load(s *engine.State) error {
	core.LogInfo("loading testbed...")

	cam := world.NewCamera()
	cam.MoveSpeed = cameraMoveSpeed
	cam.RotateSpeed = cameraRotateSpeed
	cam.SetPos(mgl32.Vec3{10.5, 5.0, 9.5})
	t.camera = s.World.StartThing().WithCamera(cam).Build()

	// Each cube is parented to the previous one.
	t.cubes[0] = metadata.NewModel("test_cube", metadata.GenerateCube("test_cube", 10, 10, 10, 1, 1), nil)
	t.cubes[1] = metadata.NewModel("test_cube_2", metadata.GenerateCube("test_cube_2", 5, 5, 5, 1, 1), nil)
	t.cubes[2] = metadata.NewModel("test_cube_3", metadata.GenerateCube("test_cube_3", 2, 2, 2, 1, 1), nil)
	t.layer = metadata.NewSceneGraph(t.cubes[0])
	metadata.Attach(metadata.Attach(t.layer, t.cubes[1]), t.cubes[2])
	t.spin(0)

	target := t.cubes[2].Instance(mgl32.Translate3D(0, 0, 20))
	t.target = s.World.StartThing().
		WithModel(target.Local, target).
		WithPhysical(world.Physical{Velocity: mgl32.Vec3{0, 0, -1}, Mass: 1}).
		WithHealth(world.NewHealth(30)).
		Build()

	// Clicks arrive on the hub; damage is applied on the next tick.
	t.onUI = core.NewHandler(func(e ui.Event) {
		if _, ok := e.(ui.Clicked); ok {
			t.pending++
		}
	})
	s.UIEvents.AddHandler(Name, t.onUI)
	return nil
}

func (t *Testbed) Update(s *engine.State, delta time.Duration) error {
	for _, ev := range s.Input.Pending() {
		switch ev := ev.(type) {
		case core.KeyDown:
			t.held[ev.Key] = true
			if ev.Key == core.KEY_ESCAPE {
				s.RequestQuit()
			}
		case core.KeyUp:
			delete(t.held, ev.Key)
			if ev.Key == core.KEY_P {
				if cam := s.ActiveCamera(); cam != nil {
					core.LogDebug("Pos:[%.2f, %.2f, %.2f]", cam.Position.X(), cam.Position.Y(), cam.Position.Z())
				}
			}
		}
	}

	t.moveCamera(s, delta)
	t.updateTarget(s, delta)

	t.spin(0.5 * float32(delta.Seconds()))
	s.PushLayer(t.layer)
	return nil
}

func (t *Testbed) moveCamera(s *engine.State, delta time.Duration) {
	if t.camera == nil {
		return
	}
	dir := world.DirNone
	switch {
	case t.held[core.KEY_W]:
		dir = world.DirForward
	case t.held[core.KEY_S]:
		dir = world.DirBackward
	case t.held[core.KEY_A]:
		dir = world.DirLeft
	case t.held[core.KEY_D]:
		dir = world.DirRight
	case t.held[core.KEY_Q], t.held[core.KEY_SPACE]:
		dir = world.DirUp
	case t.held[core.KEY_E], t.held[core.KEY_X]:
		dir = world.DirDown
	}

	var turn mgl32.Vec3
	if t.held[core.KEY_LEFT] {
		turn[1] += 1
	}
	if t.held[core.KEY_RIGHT] {
		turn[1] -= 1
	}
	if t.held[core.KEY_UP] {
		turn[0] += 1
	}
	if t.held[core.KEY_DOWN] {
		turn[0] -= 1
	}

	t.camera.Lock()
	ref, ok := t.camera.First(world.FacetCamera)
	t.camera.Unlock()
	if !ok {
		return
	}
	s.World.WithFacets(func(f *world.Facets) {
		cam, ok := f.Camera(ref)
		if !ok {
			return
		}
		if turn != (mgl32.Vec3{}) {
			cam.Rotate(turn.Mul(cam.RotateSpeed * float32(delta.Seconds())))
		}
		cam.Direction = dir
		cam.Step(delta)
	})
}

func (t *Testbed) updateTarget(s *engine.State, delta time.Duration) {
	if t.target == nil {
		t.pending = 0
		return
	}
	t.target.Lock()
	health, _ := t.target.First(world.FacetHealth)
	body, _ := t.target.First(world.FacetPhysical)
	model, _ := t.target.First(world.FacetModel)
	t.target.Unlock()

	alive := true
	s.World.WithFacets(func(f *world.Facets) {
		if p, ok := f.Physical(body); ok {
			p.Integrate(delta)
			if m, ok := f.Model(model); ok {
				m.Transform = mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(m.Model.Local)
			}
		}
		if h, ok := f.Health(health); ok {
			for ; t.pending > 0; t.pending-- {
				h.TakeDmg(clickDamage)
			}
			alive = h.IsAlive()
		}
	})
	t.pending = 0
	if !alive {
		core.LogInfo("target destroyed")
		s.World.RemoveThing(t.target.ID())
		t.target = nil
	}
}

// spin rotates every cube by angle radians around the y axis, keeping the
// offsets from their parents.
func (t *Testbed) spin(angle float32) {
	t.rotation += angle
	rot := mgl32.HomogRotate3DY(t.rotation)
	t.cubes[0].Local = rot
	t.cubes[1].Local = mgl32.Translate3D(10, 0, 1).Mul4(rot)
	t.cubes[2].Local = mgl32.Translate3D(5, 0, 1).Mul4(rot)
}

func (t *Testbed) Unload(s *engine.State) error {
	s.UIEvents.RemoveHandler(Name)
	t.onUI = nil
	if t.camera != nil {
		s.World.RemoveThing(t.camera.ID())
		t.camera = nil
	}
	if t.target != nil {
		s.World.RemoveThing(t.target.ID())
		t.target = nil
	}
	clear(t.held)
	core.LogInfo("testbed unloaded")
	return nil
}
