package ui

import (
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// Event is published on the UI hub. Every variant names the element (or
// window) it concerns.
type Event interface {
	Target() core.Identity
	isUIEvent()
}

// Clicked reports a mouse press. ID is the window that received it.
type Clicked struct {
	ID     core.Identity
	Button core.Button
	X, Y   float64
}

type GainedFocus struct {
	ID core.Identity
}

type LeftFocus struct {
	ID core.Identity
}

func (e Clicked) Target() core.Identity     { return e.ID }
func (e GainedFocus) Target() core.Identity { return e.ID }
func (e LeftFocus) Target() core.Identity   { return e.ID }

func (Clicked) isUIEvent()     {}
func (GainedFocus) isUIEvent() {}
func (LeftFocus) isUIEvent()   {}

// FromInput maps window level input to UI events. ok is false for input that
// has no UI meaning. The shell has no element hierarchy to hit test against,
// so the target is always the input source, i.e. the window; handlers that
// care about elements resolve them from the click position.
func FromInput(e core.InputEvent) (Event, bool) {
	switch e := e.(type) {
	case core.MouseDown:
		return Clicked{ID: e.Source, Button: e.Button, X: e.X, Y: e.Y}, true
	case core.WindowFocusGained:
		return GainedFocus{ID: e.Source}, true
	case core.WindowFocusLost:
		return LeftFocus{ID: e.Source}, true
	}
	return nil, false
}
