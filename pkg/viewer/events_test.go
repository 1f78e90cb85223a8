package viewer

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name string
		in   uv.Event
		want Event
	}{
		{"letter", uv.KeyPressEvent{Code: 'q', Text: "q"}, KeyEvent{Rune: 'q', Key: "q"}},
		{"ctrl+c", uv.KeyPressEvent{Code: 'c', Mod: uv.ModCtrl}, KeyEvent{Key: "ctrl+c", Mods: ModCtrl}},
		{"escape", uv.KeyPressEvent{Code: uv.KeyEscape}, KeyEvent{Key: "esc"}},
		{"space", uv.KeyPressEvent{Code: uv.KeySpace, Text: " "}, KeyEvent{Rune: ' ', Key: "space"}},
		{"arrow", uv.KeyPressEvent{Code: uv.KeyUp}, KeyEvent{Key: "up"}},
		{"resize", uv.WindowSizeEvent{Width: 80, Height: 24}, ResizeEvent{Width: 80, Height: 24}},
		{
			"press",
			uv.MouseClickEvent{X: 3, Y: 4, Button: uv.MouseLeft},
			MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 3, Y: 4},
		},
		{
			"release",
			uv.MouseReleaseEvent{X: 3, Y: 4, Button: uv.MouseMiddle},
			MouseEvent{Kind: MouseRelease, Button: ButtonMiddle, X: 3, Y: 4},
		},
		{
			"drag",
			uv.MouseMotionEvent{X: 5, Y: 6, Button: uv.MouseLeft, Mod: uv.ModShift},
			MouseEvent{Kind: MouseDrag, Button: ButtonLeft, Mods: ModShift, X: 5, Y: 6},
		},
		{
			"move",
			uv.MouseMotionEvent{X: 7, Y: 8},
			MouseEvent{Kind: MouseMove, X: 7, Y: 8},
		},
		{
			"wheel",
			uv.MouseWheelEvent{X: 1, Y: 1, Button: uv.MouseWheelDown},
			MouseEvent{Kind: MouseWheelDown, X: 1, Y: 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := convertEvent(tc.in)
			if !ok {
				t.Fatal("event not converted")
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}

	if _, ok := convertEvent(uv.KeyReleaseEvent{Code: 'a'}); ok {
		t.Error("key release should be ignored")
	}
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		ev   Event
		want bool
	}{
		{KeyEvent{Key: "q", Rune: 'q'}, true},
		{KeyEvent{Key: "esc"}, true},
		{KeyEvent{Key: "ctrl+c", Mods: ModCtrl}, true},
		{KeyEvent{Key: "Q", Rune: 'Q', Mods: ModShift}, false},
		{KeyEvent{Key: "alt+q", Mods: ModAlt}, false},
		{KeyEvent{Key: "c", Rune: 'c'}, false},
		{MouseEvent{Kind: MousePress}, false},
		{ResizeEvent{Width: 1, Height: 1}, false},
	}
	for _, tc := range tests {
		if got := IsQuit(tc.ev); got != tc.want {
			t.Errorf("IsQuit(%+v) = %v, want %v", tc.ev, got, tc.want)
		}
	}
}

func TestModsContains(t *testing.T) {
	m := ModCtrl | ModShift
	if !m.Contains(ModCtrl) || !m.Contains(ModCtrl|ModShift) {
		t.Error("missing set bits")
	}
	if m.Contains(ModAlt) {
		t.Error("reported unset bit")
	}
}
