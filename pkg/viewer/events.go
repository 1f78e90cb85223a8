// Package viewer drives the interactive render loop: it collects input,
// lets a FrameCallback mutate the scene and presents each frame as glyphs.
package viewer

// Event is one input event delivered to a FrameCallback.
type Event interface {
	isEvent()
}

// Mods is a set of held modifier keys.
type Mods uint8

// Modifier bits.
const (
	ModShift Mods = 1 << iota
	ModAlt
	ModCtrl
)

// Contains reports whether all bits of m are set in x.
func (x Mods) Contains(m Mods) bool {
	return x&m == m
}

// KeyEvent is a key press. Key is the textual form used for matching,
// for example "a", "esc", "ctrl+c" or "up". Rune is the printable character,
// if any.
type KeyEvent struct {
	Rune rune
	Key  string
	Mods Mods
}

// MouseKind says what a mouse event did.
type MouseKind int

// Mouse event kinds.
const (
	MousePress MouseKind = iota
	MouseRelease
	MouseDrag // motion with a button held
	MouseMove // motion with no button held
	MouseWheelUp
	MouseWheelDown
)

// MouseButton identifies a mouse button.
type MouseButton int

// Mouse buttons.
const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// MouseEvent is a mouse action at cell (X, Y).
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	Mods   Mods
	X, Y   int
}

// ResizeEvent reports the new terminal size in cells.
type ResizeEvent struct {
	Width, Height int
}

func (KeyEvent) isEvent()    {}
func (MouseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}

// IsQuit reports whether ev asks the viewer to exit: Esc, q or ctrl+c.
func IsQuit(ev Event) bool {
	k, ok := ev.(KeyEvent)
	if !ok {
		return false
	}
	switch k.Key {
	case "esc", "q", "ctrl+c":
		return true
	}
	return false
}
