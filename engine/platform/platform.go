package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/anima-shell/engine/core"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Window is a glfw window acting as an input source. Callbacks only queue
// events; Drain pumps the OS message loop and hands them over.
type Window struct {
	id     core.Identity
	handle *glfw.Window
	events []core.InputEvent
	width  int
	height int
}

func New() (*Window, error) {
	return &Window{
		id: core.NextIdentity(),
	}, nil
}

func (w *Window) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	w.handle = window
	w.width, w.height = int(width), int(height)

	w.handle.SetKeyCallback(w.keyCallback)
	w.handle.SetMouseButtonCallback(w.mouseButtonCallback)
	w.handle.SetCursorPosCallback(w.cursorPosCallback)
	w.handle.SetCursorEnterCallback(w.cursorEnterCallback)
	w.handle.SetScrollCallback(w.scrollCallback)
	w.handle.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	w.handle.SetFocusCallback(w.focusCallback)
	w.handle.SetPosCallback(w.posCallback)
	w.handle.SetCloseCallback(w.closeCallback)
	w.handle.SetPos(int(x), int(y))
	w.handle.Show()

	startTime = glfw.GetTime()
	core.LogInfo("window %q created (%dx%d)", applicationName, width, height)
	return nil
}

func (w *Window) ID() core.Identity {
	return w.id
}

// Drain polls glfw and returns the events queued since the last call.
func (w *Window) Drain() []core.InputEvent {
	if w.handle == nil {
		return nil
	}
	glfw.PollEvents()
	out := w.events
	w.events = nil
	return out
}

func (w *Window) Size() (int, int) {
	return w.width, w.height
}

func (w *Window) Shutdown() error {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
		w.events = append(w.events, core.WindowDestroy{Source: w.id})
	}
	glfw.Terminate()
	return nil
}

// GetAbsoluteTime returns seconds since the window was created.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (w *Window) push(e core.InputEvent) {
	w.events = append(w.events, e)
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	code := translateKey(key)
	switch action {
	case glfw.Press, glfw.Repeat:
		w.push(core.KeyDown{Source: w.id, Key: code, Scancode: scancode})
	case glfw.Release:
		w.push(core.KeyUp{Source: w.id, Key: code, Scancode: scancode})
	}
}

func (w *Window) mouseButtonCallback(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	x, y := win.GetCursorPos()
	if action == glfw.Press {
		w.push(core.MouseDown{Source: w.id, Button: b, X: x, Y: y})
	} else {
		w.push(core.MouseUp{Source: w.id, Button: b, X: x, Y: y})
	}
}

func (w *Window) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	w.push(core.MouseMove{Source: w.id, X: xpos, Y: ypos})
}

func (w *Window) cursorEnterCallback(_ *glfw.Window, entered bool) {
	if entered {
		w.push(core.MouseEnter{Source: w.id})
	} else {
		w.push(core.MouseLeave{Source: w.id})
	}
}

func (w *Window) scrollCallback(_ *glfw.Window, xoff, yoff float64) {
	w.push(core.MouseWheel{Source: w.id, DX: xoff, DY: yoff})
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.push(core.WindowResize{Source: w.id, Width: width, Height: height})
}

func (w *Window) focusCallback(_ *glfw.Window, focused bool) {
	if focused {
		w.push(core.WindowFocusGained{Source: w.id})
	} else {
		w.push(core.WindowFocusLost{Source: w.id})
	}
}

func (w *Window) posCallback(_ *glfw.Window, x, y int) {
	w.push(core.WindowMoved{Source: w.id, X: x, Y: y})
}

func (w *Window) closeCallback(_ *glfw.Window) {
	w.push(core.WindowClose{Source: w.id})
}
