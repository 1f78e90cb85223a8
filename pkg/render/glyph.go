package render

import (
	"errors"
	"math"
)

// DefaultGlyphs orders characters from darkest to brightest.
const DefaultGlyphs = " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$"

// ErrEmptyRamp is returned when a glyph ramp has no characters.
var ErrEmptyRamp = errors.New("render: glyph ramp is empty")

// Ramp maps luminance to characters; index 0 is used for black.
type Ramp []rune

// ParseRamp converts a string of glyphs into a Ramp.
func ParseRamp(s string) (Ramp, error) {
	r := Ramp(s)
	if len(r) == 0 {
		return nil, ErrEmptyRamp
	}
	return r, nil
}

// Glyph returns the character for luminance v.
func (r Ramp) Glyph(v float64) rune {
	return r[Quantize(v, len(r))]
}

// Quantize maps v in [0, 1] to an index in [0, n-1] as ceil(v*n - 1).
// Values outside the range are clamped.
func Quantize(v float64, n int) int {
	if n <= 0 || math.IsNaN(v) {
		return 0
	}
	i := math.Ceil(v*float64(n) - 1)
	if i < 0 {
		return 0
	}
	if i > float64(n-1) {
		return n - 1
	}
	return int(i)
}

// CellChange is a single glyph that differs from the previous frame.
type CellChange struct {
	X, Y  int
	Glyph rune
}

// GlyphGrid is one frame of characters.
type GlyphGrid struct {
	Buffer[rune]
}

// NewGlyphGrid creates a grid filled with spaces.
func NewGlyphGrid(width, height int) *GlyphGrid {
	g := &GlyphGrid{Buffer: *NewBuffer[rune](width, height)}
	g.Fill(' ')
	return g
}

// FromLuminance quantizes lum into g, resizing g to match.
func (g *GlyphGrid) FromLuminance(lum *Buffer[float64], ramp Ramp) {
	if g.Width != lum.Width || g.Height != lum.Height {
		g.Resize(lum.Width, lum.Height)
	}
	for i, v := range lum.Values {
		g.Values[i] = ramp.Glyph(v)
	}
}

// Diff appends to dst every cell of g that differs from prev and returns the
// extended slice. When the dimensions differ every cell is reported.
func (g *GlyphGrid) Diff(prev *GlyphGrid, dst []CellChange) []CellChange {
	full := prev == nil || prev.Width != g.Width || prev.Height != g.Height
	for y := range g.Height {
		row := y * g.Width
		for x := range g.Width {
			v := g.Values[row+x]
			if full || prev.Values[row+x] != v {
				dst = append(dst, CellChange{X: x, Y: y, Glyph: v})
			}
		}
	}
	return dst
}

// String returns the grid as rows, each ending in a newline.
func (g *GlyphGrid) String() string {
	buf := make([]rune, 0, (g.Width+1)*g.Height)
	for y := range g.Height {
		buf = append(buf, g.Values[y*g.Width:(y+1)*g.Width]...)
		buf = append(buf, '\n')
	}
	return string(buf)
}
