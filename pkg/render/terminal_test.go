package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func cellText(scr uv.Screen, x, y int) string {
	c := scr.CellAt(x, y)
	if c == nil {
		return ""
	}
	return c.Content
}

func TestGlyphGridDraw(t *testing.T) {
	g := NewGlyphGrid(3, 2)
	g.Set(0, 0, 'a')
	g.Set(2, 1, 'z')

	scr := uv.NewScreenBuffer(10, 5)
	g.Draw(scr, uv.Rect(1, 1, 8, 4))

	if got := cellText(scr, 1, 1); got != "a" {
		t.Errorf("cell (1, 1) = %q, want a", got)
	}
	if got := cellText(scr, 3, 2); got != "z" {
		t.Errorf("cell (3, 2) = %q, want z", got)
	}

	// Areas smaller than the grid clip it.
	small := uv.NewScreenBuffer(10, 5)
	g.Draw(small, uv.Rect(0, 0, 2, 1))
	if got := cellText(small, 2, 1); got == "z" {
		t.Error("glyph drawn outside the area")
	}
}

func TestDrawChanges(t *testing.T) {
	scr := uv.NewScreenBuffer(6, 4)
	changes := []CellChange{
		{X: 0, Y: 0, Glyph: '#'},
		{X: 1, Y: 2, Glyph: '@'},
		{X: 9, Y: 0, Glyph: '!'}, // clipped
	}
	DrawChanges(scr, uv.Rect(2, 1, 4, 3), changes)

	if got := cellText(scr, 2, 1); got != "#" {
		t.Errorf("cell (2, 1) = %q, want #", got)
	}
	if got := cellText(scr, 3, 3); got != "@" {
		t.Errorf("cell (3, 3) = %q, want @", got)
	}
}

func TestDrawStatus(t *testing.T) {
	scr := uv.NewScreenBuffer(8, 3)
	area := uv.Rect(0, 0, 8, 3)
	DrawStatus(scr, area, 2, "fps 30")

	if got := cellText(scr, 0, 2); got != "f" {
		t.Errorf("cell (0, 2) = %q, want f", got)
	}
	c := scr.CellAt(7, 2)
	if c == nil || c.Content != " " || c.Style.Attrs&uv.AttrReverse == 0 {
		t.Errorf("padding cell = %+v, want reversed space", c)
	}

	// Rows outside the area are ignored.
	DrawStatus(scr, area, 5, "nope")
}
