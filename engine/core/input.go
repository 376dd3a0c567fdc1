package core

type Button uint8

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_UNKNOWN   KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_PAUSE     KeyCode = 0x13
	KEY_CAPITAL   KeyCode = 0x14
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_PRIOR     KeyCode = 0x21
	KEY_NEXT      KeyCode = 0x22
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_0         KeyCode = 0x30
	KEY_1         KeyCode = 0x31
	KEY_2         KeyCode = 0x32
	KEY_3         KeyCode = 0x33
	KEY_4         KeyCode = 0x34
	KEY_5         KeyCode = 0x35
	KEY_6         KeyCode = 0x36
	KEY_7         KeyCode = 0x37
	KEY_8         KeyCode = 0x38
	KEY_9         KeyCode = 0x39
	KEY_A         KeyCode = 0x41
	KEY_B         KeyCode = 0x42
	KEY_C         KeyCode = 0x43
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_F         KeyCode = 0x46
	KEY_G         KeyCode = 0x47
	KEY_H         KeyCode = 0x48
	KEY_I         KeyCode = 0x49
	KEY_J         KeyCode = 0x4A
	KEY_K         KeyCode = 0x4B
	KEY_L         KeyCode = 0x4C
	KEY_M         KeyCode = 0x4D
	KEY_N         KeyCode = 0x4E
	KEY_O         KeyCode = 0x4F
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_T         KeyCode = 0x54
	KEY_U         KeyCode = 0x55
	KEY_V         KeyCode = 0x56
	KEY_W         KeyCode = 0x57
	KEY_X         KeyCode = 0x58
	KEY_Y         KeyCode = 0x59
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F2        KeyCode = 0x71
	KEY_F3        KeyCode = 0x72
	KEY_F4        KeyCode = 0x73
	KEY_F5        KeyCode = 0x74
	KEY_F6        KeyCode = 0x75
	KEY_F7        KeyCode = 0x76
	KEY_F8        KeyCode = 0x77
	KEY_F9        KeyCode = 0x78
	KEY_F10       KeyCode = 0x79
	KEY_F11       KeyCode = 0x7A
	KEY_F12       KeyCode = 0x7B
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEY_LMENU     KeyCode = 0xA4
	KEY_RMENU     KeyCode = 0xA5
	KEY_SEMICOLON KeyCode = 0xBA
	KEY_PLUS      KeyCode = 0xBB
	KEY_COMMA     KeyCode = 0xBC
	KEY_MINUS     KeyCode = 0xBD
	KEY_PERIOD    KeyCode = 0xBE
	KEY_SLASH     KeyCode = 0xBF
	KEY_GRAVE     KeyCode = 0xC0
	KEYS_MAX_KEYS
)

// InputEvent is one input record produced by an InputSource. The concrete
// types below are the only implementations.
type InputEvent interface {
	// Origin returns the identity of the source that produced the event.
	Origin() Identity
	isInputEvent()
}

// InputSource is anything that can be drained for input once per frame.
// Renderers are input sources too since they own the window event pump.
type InputSource interface {
	ID() Identity
	Drain() []InputEvent
}

type KeyDown struct {
	Source   Identity
	Key      KeyCode
	Scancode int
}

type KeyUp struct {
	Source   Identity
	Key      KeyCode
	Scancode int
}

type MouseDown struct {
	Source Identity
	Button Button
	X, Y   float64
}

type MouseUp struct {
	Source Identity
	Button Button
	X, Y   float64
}

type MouseMove struct {
	Source Identity
	X, Y   float64
}

type MouseWheel struct {
	Source Identity
	DX, DY float64
}

type MouseEnter struct{ Source Identity }

type MouseLeave struct{ Source Identity }

type JoyAxis struct {
	Source   Identity
	Joystick int
	Axis     int
	Value    float32
}

type JoyButtonDown struct {
	Source   Identity
	Joystick int
	Button   int
}

type JoyButtonUp struct {
	Source   Identity
	Joystick int
	Button   int
}

type JoyConnected struct {
	Source   Identity
	Joystick int
	Name     string
}

type JoyDisconnected struct {
	Source   Identity
	Joystick int
}

type WindowClose struct{ Source Identity }

type WindowDestroy struct{ Source Identity }

type WindowResize struct {
	Source        Identity
	Width, Height int
}

type WindowFocusGained struct{ Source Identity }

type WindowFocusLost struct{ Source Identity }

type WindowMoved struct {
	Source Identity
	X, Y   int
}

func (e KeyDown) Origin() Identity           { return e.Source }
func (e KeyUp) Origin() Identity             { return e.Source }
func (e MouseDown) Origin() Identity         { return e.Source }
func (e MouseUp) Origin() Identity           { return e.Source }
func (e MouseMove) Origin() Identity         { return e.Source }
func (e MouseWheel) Origin() Identity        { return e.Source }
func (e MouseEnter) Origin() Identity        { return e.Source }
func (e MouseLeave) Origin() Identity        { return e.Source }
func (e JoyAxis) Origin() Identity           { return e.Source }
func (e JoyButtonDown) Origin() Identity     { return e.Source }
func (e JoyButtonUp) Origin() Identity       { return e.Source }
func (e JoyConnected) Origin() Identity      { return e.Source }
func (e JoyDisconnected) Origin() Identity   { return e.Source }
func (e WindowClose) Origin() Identity       { return e.Source }
func (e WindowDestroy) Origin() Identity     { return e.Source }
func (e WindowResize) Origin() Identity      { return e.Source }
func (e WindowFocusGained) Origin() Identity { return e.Source }
func (e WindowFocusLost) Origin() Identity   { return e.Source }
func (e WindowMoved) Origin() Identity       { return e.Source }

func (KeyDown) isInputEvent()           {}
func (KeyUp) isInputEvent()             {}
func (MouseDown) isInputEvent()         {}
func (MouseUp) isInputEvent()           {}
func (MouseMove) isInputEvent()         {}
func (MouseWheel) isInputEvent()        {}
func (MouseEnter) isInputEvent()        {}
func (MouseLeave) isInputEvent()        {}
func (JoyAxis) isInputEvent()           {}
func (JoyButtonDown) isInputEvent()     {}
func (JoyButtonUp) isInputEvent()       {}
func (JoyConnected) isInputEvent()      {}
func (JoyDisconnected) isInputEvent()   {}
func (WindowClose) isInputEvent()       {}
func (WindowDestroy) isInputEvent()     {}
func (WindowResize) isInputEvent()      {}
func (WindowFocusGained) isInputEvent() {}
func (WindowFocusLost) isInputEvent()   {}
func (WindowMoved) isInputEvent()       {}

// IsQuit reports whether e asks the shell to stop.
func IsQuit(e InputEvent) bool {
	switch e.(type) {
	case WindowClose, WindowDestroy:
		return true
	}
	return false
}
