package platform

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

// AxisDeadzone is the smallest axis change reported as a JoyAxis event.
const AxisDeadzone = 0.05

type padState struct {
	present bool
	name    string
	// axes holds the last reported value of each axis, not the last polled
	// one, so slow drifts still add up to an event.
	axes    []float32
	buttons []bool
}

// Joysticks polls every glfw joystick slot and reports connection, axis and
// button changes. glfw must be initialized by the window first.
type Joysticks struct {
	id    core.Identity
	state [glfw.JoystickLast + 1]padState
}

func NewJoysticks() *Joysticks {
	return &Joysticks{id: core.NextIdentity()}
}

func (j *Joysticks) ID() core.Identity {
	return j.id
}

func (j *Joysticks) Drain() []core.InputEvent {
	var out []core.InputEvent
	for i := range j.state {
		joy := glfw.Joystick(i)
		cur := padState{present: joy.Present()}
		if cur.present {
			cur.name = joy.GetName()
			cur.axes = joy.GetAxes()
			for _, a := range joy.GetButtons() {
				cur.buttons = append(cur.buttons, a == glfw.Press)
			}
		}
		out, j.state[i] = diffPad(out, j.id, i, j.state[i], cur)
	}
	return out
}

// diffPad appends the events turning prev into cur and returns the state to
// diff the next poll against.
func diffPad(out []core.InputEvent, src core.Identity, joy int, prev, cur padState) ([]core.InputEvent, padState) {
	switch {
	case !prev.present && !cur.present:
		return out, padState{}
	case prev.present && !cur.present:
		return append(out, core.JoyDisconnected{Source: src, Joystick: joy}), padState{}
	case !prev.present && cur.present:
		out = append(out, core.JoyConnected{Source: src, Joystick: joy, Name: cur.name})
		prev = padState{}
	}

	next := padState{
		present: true,
		name:    cur.name,
		axes:    make([]float32, len(cur.axes)),
		buttons: cur.buttons,
	}
	for axis, v := range cur.axes {
		var reported float32
		if axis < len(prev.axes) {
			reported = prev.axes[axis]
		}
		if math.Abs(float64(v-reported)) >= AxisDeadzone {
			out = append(out, core.JoyAxis{Source: src, Joystick: joy, Axis: axis, Value: v})
			reported = v
		}
		next.axes[axis] = reported
	}
	for button, down := range cur.buttons {
		was := button < len(prev.buttons) && prev.buttons[button]
		switch {
		case down && !was:
			out = append(out, core.JoyButtonDown{Source: src, Joystick: joy, Button: button})
		case !down && was:
			out = append(out, core.JoyButtonUp{Source: src, Joystick: joy, Button: button})
		}
	}
	return out, next
}
