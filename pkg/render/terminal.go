package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw writes every glyph of g onto the screen, clipped to area.
func (g *GlyphGrid) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		y := row - area.Min.Y
		if y >= g.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= g.Width {
				break
			}
			scr.SetCell(col, row, glyphCell(g.Values[y*g.Width+x]))
		}
	}
}

// DrawChanges writes only the changed cells, offset by the top-left corner
// of area and clipped to it.
func DrawChanges(scr uv.Screen, area uv.Rectangle, changes []CellChange) {
	for _, c := range changes {
		col, row := area.Min.X+c.X, area.Min.Y+c.Y
		if col >= area.Max.X || row >= area.Max.Y {
			continue
		}
		scr.SetCell(col, row, glyphCell(c.Glyph))
	}
}

// DrawStatus writes text in reverse video across row y of area, padding
// with spaces to the full width.
func DrawStatus(scr uv.Screen, area uv.Rectangle, y int, text string) {
	if y < area.Min.Y || y >= area.Max.Y {
		return
	}
	runes := []rune(text)
	for col := area.Min.X; col < area.Max.X; col++ {
		r := ' '
		if i := col - area.Min.X; i < len(runes) {
			r = runes[i]
		}
		cell := glyphCell(r)
		cell.Style = uv.Style{Attrs: uv.AttrReverse}
		scr.SetCell(col, y, cell)
	}
}

func glyphCell(r rune) *uv.Cell {
	return &uv.Cell{
		Content: string(r),
		Width:   1,
	}
}
