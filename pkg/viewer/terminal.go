package viewer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	uv "github.com/charmbracelet/ultraviolet"
)

// Terminal is the output surface and input source of the loop.
type Terminal interface {
	uv.Screen

	// Events returns the pending input events without blocking.
	Events() []Event
	// Size returns the current size in cells.
	Size() (width, height int)
	// Display flushes the cells written since the last call.
	Display() error
	// Close restores the terminal.
	Close() error
}

// UVTerminal is a Terminal backed by an ultraviolet terminal in the
// alternate screen with mouse tracking enabled.
type UVTerminal struct {
	term          *uv.Terminal
	width, height int
	closeOnce     sync.Once
	closeErr      error
}

var _ Terminal = (*UVTerminal)(nil)

// OpenTerminal starts the default terminal and prepares it for drawing.
func OpenTerminal() (*UVTerminal, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return nil, fmt.Errorf("resize terminal: %w", err)
	}

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	return &UVTerminal{term: term, width: width, height: height}, nil
}

// Events drains the ultraviolet event channel.
func (t *UVTerminal) Events() []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-t.term.Events():
			if !ok {
				return events
			}
			if ws, isSize := ev.(uv.WindowSizeEvent); isSize {
				t.width, t.height = ws.Width, ws.Height
				t.term.Erase()
				_ = t.term.Resize(ws.Width, ws.Height)
			}
			if e, ok := convertEvent(ev); ok {
				events = append(events, e)
			}
		default:
			return events
		}
	}
}

// Size returns the size in cells.
func (t *UVTerminal) Size() (int, int) { return t.width, t.height }

// Display renders pending changes to the terminal.
func (t *UVTerminal) Display() error { return t.term.Display() }

// Bounds implements uv.Screen.
func (t *UVTerminal) Bounds() uv.Rectangle { return t.term.Bounds() }

// CellAt implements uv.Screen.
func (t *UVTerminal) CellAt(x, y int) *uv.Cell { return t.term.CellAt(x, y) }

// SetCell implements uv.Screen.
func (t *UVTerminal) SetCell(x, y int, c *uv.Cell) { t.term.SetCell(x, y, c) }

// WidthMethod implements uv.Screen.
func (t *UVTerminal) WidthMethod() uv.WidthMethod { return t.term.WidthMethod() }

// Close leaves the alternate screen and shuts the terminal down. Only the
// first call has an effect.
func (t *UVTerminal) Close() error {
	t.closeOnce.Do(func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		t.term.ExitAltScreen()
		t.term.ShowCursor()
		t.closeErr = t.term.Shutdown(context.Background())
	})
	return t.closeErr
}

func convertMods(m uv.KeyMod) Mods {
	var out Mods
	if m.Contains(uv.ModShift) {
		out |= ModShift
	}
	if m.Contains(uv.ModAlt) {
		out |= ModAlt
	}
	if m.Contains(uv.ModCtrl) {
		out |= ModCtrl
	}
	return out
}

func convertButton(b uv.MouseButton) MouseButton {
	switch b {
	case uv.MouseLeft:
		return ButtonLeft
	case uv.MouseMiddle:
		return ButtonMiddle
	case uv.MouseRight:
		return ButtonRight
	}
	return ButtonNone
}

func mouseEvent(kind MouseKind, m uv.Mouse) MouseEvent {
	return MouseEvent{
		Kind:   kind,
		Button: convertButton(m.Button),
		Mods:   convertMods(m.Mod),
		X:      m.X,
		Y:      m.Y,
	}
}

// convertEvent maps an ultraviolet event onto the viewer vocabulary.
func convertEvent(ev uv.Event) (Event, bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return ResizeEvent{Width: ev.Width, Height: ev.Height}, true
	case uv.KeyPressEvent:
		k := KeyEvent{Key: ev.String(), Mods: convertMods(ev.Mod)}
		if r, _ := utf8.DecodeRuneInString(ev.Text); r != utf8.RuneError {
			k.Rune = r
		}
		return k, true
	case uv.MouseClickEvent:
		return mouseEvent(MousePress, uv.Mouse(ev)), true
	case uv.MouseReleaseEvent:
		return mouseEvent(MouseRelease, uv.Mouse(ev)), true
	case uv.MouseMotionEvent:
		m := uv.Mouse(ev)
		if m.Button == uv.MouseNone {
			return mouseEvent(MouseMove, m), true
		}
		return mouseEvent(MouseDrag, m), true
	case uv.MouseWheelEvent:
		m := uv.Mouse(ev)
		switch m.Button {
		case uv.MouseWheelUp:
			return mouseEvent(MouseWheelUp, m), true
		case uv.MouseWheelDown:
			return mouseEvent(MouseWheelDown, m), true
		}
	}
	return nil, false
}
