package testbed

import (
	"testing"
	"time"

	"github.com/spaghettifunk/anima-shell/engine"
	"github.com/spaghettifunk/anima-shell/engine/core"
	"github.com/spaghettifunk/anima-shell/engine/ui"
	"github.com/spaghettifunk/anima-shell/engine/world"
)

func loaded(t *testing.T) (*Testbed, *engine.State) {
	t.Helper()
	s := engine.NewState()
	tb := New()
	if err := tb.Load(s); err != nil {
		t.Fatal(err)
	}
	return tb, s
}

func TestLoadPopulatesWorld(t *testing.T) {
	tb, s := loaded(t)
	if s.World.Len() != 2 {
		t.Fatalf("things\nhave %d\nwant 2", s.World.Len())
	}
	if s.ActiveCamera() == nil {
		t.Fatal("no camera facet")
	}
	if n := len(tb.layer.Children()); n != 1 {
		t.Fatalf("root children\nhave %d\nwant 1", n)
	}
}

func TestWMovesCameraForward(t *testing.T) {
	tb, s := loaded(t)
	before := s.ActiveCamera().Position
	forward := s.ActiveCamera().Forward()

	s.Input.Queue(core.KeyDown{Key: core.KEY_W})
	if err := tb.Update(s, time.Second); err != nil {
		t.Fatal(err)
	}
	s.Input.Clear()

	after := s.ActiveCamera().Position
	want := before.Add(forward.Mul(cameraMoveSpeed))
	if !after.ApproxEqualThreshold(want, 1e-3) {
		t.Fatalf("camera position\nhave %v\nwant %v", after, want)
	}
	if len(s.Layers) != 1 {
		t.Fatalf("layers pushed\nhave %d\nwant 1", len(s.Layers))
	}

	s.Input.Queue(core.KeyUp{Key: core.KEY_W})
	tb.Update(s, time.Second)
	if p := s.ActiveCamera().Position; !p.ApproxEqualThreshold(after, 1e-6) {
		t.Fatalf("camera kept moving after key up: %v", p)
	}
}

func TestEscapeRequestsQuit(t *testing.T) {
	tb, s := loaded(t)
	s.Input.Queue(core.KeyDown{Key: core.KEY_ESCAPE})
	tb.Update(s, time.Millisecond)
	if !s.QuitRequested() {
		t.Fatal("escape did not request quit")
	}
}

func TestClicksDestroyTarget(t *testing.T) {
	tb, s := loaded(t)
	id := tb.target.ID()
	for i := 0; i < 3; i++ {
		if n := s.UIEvents.Publish(ui.Clicked{Button: core.BUTTON_LEFT}); n != 1 {
			t.Fatalf("ui handlers\nhave %d\nwant 1", n)
		}
	}
	tb.Update(s, time.Millisecond)
	if _, ok := s.World.Thing(id); ok {
		t.Fatal("target survived 30 damage")
	}
	var healths int
	s.World.WithFacets(func(f *world.Facets) { healths = f.Count(world.FacetHealth) })
	if healths != 0 {
		t.Fatalf("health facets left\nhave %d\nwant 0", healths)
	}
}

func TestUnloadCleansUp(t *testing.T) {
	tb, s := loaded(t)
	if err := tb.Unload(s); err != nil {
		t.Fatal(err)
	}
	if s.World.Len() != 0 {
		t.Fatalf("things left\nhave %d\nwant 0", s.World.Len())
	}
	if s.UIEvents.Len() != 0 {
		t.Fatal("ui handler still subscribed")
	}
}
