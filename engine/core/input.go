package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
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
	KEY_P         KeyCode = 0x50
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_F1        KeyCode = 0x70
	KEY_F12       KeyCode = 0x7B
	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Mouse state structure
type MouseState struct {
	X       float32
	Y       float32
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS + 1]bool
}

// Input holds current and previous keyboard and mouse state and turns raw
// platform callbacks into queued events on its bus.
type Input struct {
	bus              *EventBus
	keyboardCurrent  KeyboardState
	keyboardPrevious KeyboardState
	mouseCurrent     MouseState
	mousePrevious    MouseState
	viewportWidth    float32
	viewportHeight   float32
}

func NewInput(bus *EventBus) *Input {
	return &Input{bus: bus}
}

// Update copies current states to previous states. Call once at the end of a frame.
func (in *Input) Update() {
	in.keyboardPrevious = in.keyboardCurrent
	in.mousePrevious = in.mouseCurrent
}

func (in *Input) IsKeyDown(key KeyCode) bool {
	return in.keyboardCurrent.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return in.keyboardPrevious.Keys[key]
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	if key > KEYS_MAX_KEYS || in.keyboardCurrent.Keys[key] == pressed {
		return
	}
	in.keyboardCurrent.Keys[key] = pressed
	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	in.post(EventContext{Type: code, Data: &KeyEvent{KeyCode: key}})
}

func (in *Input) IsButtonDown(button Button) bool {
	return in.mouseCurrent.Buttons[button]
}

func (in *Input) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS || in.mouseCurrent.Buttons[button] == pressed {
		return
	}
	in.mouseCurrent.Buttons[button] = pressed
	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	in.post(EventContext{Type: code, Data: &MouseEvent{Button: button}})
}

func (in *Input) MousePosition() (float32, float32) {
	return in.mouseCurrent.X, in.mouseCurrent.Y
}

// ProcessMouseMove records the cursor position in viewport pixels.
func (in *Input) ProcessMouseMove(x, y float32) {
	if in.mouseCurrent.X == x && in.mouseCurrent.Y == y {
		return
	}
	in.mouseCurrent.X = x
	in.mouseCurrent.Y = y
	in.post(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{
			PosX:           x,
			PosY:           y,
			ViewportWidth:  in.viewportWidth,
			ViewportHeight: in.viewportHeight,
		},
	})
}

func (in *Input) ProcessMouseWheel(zDelta int8) {
	in.post(EventContext{Type: EVENT_CODE_MOUSE_WHEEL, Data: &MouseEvent{Scroll: zDelta}})
}

// ProcessResize tracks the viewport used to normalize the pointer and posts a
// resize event.
func (in *Input) ProcessResize(width, height uint32, pixelRatio float32) {
	in.viewportWidth = float32(width)
	in.viewportHeight = float32(height)
	in.post(EventContext{
		Type: EVENT_CODE_RESIZED,
		Data: &SystemEvent{WindowWidth: width, WindowHeight: height, PixelRatio: pixelRatio},
	})
}

func (in *Input) post(context EventContext) {
	if in.bus == nil {
		return
	}
	_ = in.bus.Post(context)
}

// NormalizePointer maps a client position inside a width x height viewport to
// [-1, 1] on both axes with +y pointing up. A degenerate viewport maps to the centre.
func NormalizePointer(clientX, clientY, width, height float32) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	x := (clientX/width)*2 - 1
	y := -(clientY/height)*2 + 1
	return x, y
}
