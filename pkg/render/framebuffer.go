// Package render turns meshes into character-cell frames: camera transforms,
// triangle rasterization with a depth buffer, and glyph quantization.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Buffer is a row-major width x height grid. Out-of-range access is
// reported through the return values and never panics.
type Buffer[T any] struct {
	Values []T
	Width  int
	Height int
}

// NewBuffer creates a zeroed buffer.
func NewBuffer[T any](width, height int) *Buffer[T] {
	width, height = max(width, 0), max(height, 0)
	return &Buffer[T]{
		Values: make([]T, width*height),
		Width:  width,
		Height: height,
	}
}

// Resize changes the dimensions, reusing storage when it is large enough.
// Contents are undefined afterwards; call Fill.
func (b *Buffer[T]) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	n := width * height
	if cap(b.Values) >= n {
		b.Values = b.Values[:n]
	} else {
		b.Values = make([]T, n)
	}
	b.Width, b.Height = width, height
}

// InBounds reports whether (x, y) addresses a cell.
func (b *Buffer[T]) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the value at (x, y).
func (b *Buffer[T]) At(x, y int) (T, bool) {
	if !b.InBounds(x, y) {
		var zero T
		return zero, false
	}
	return b.Values[y*b.Width+x], true
}

// Set stores v at (x, y) and reports whether the position was in range.
func (b *Buffer[T]) Set(x, y int, v T) bool {
	if !b.InBounds(x, y) {
		return false
	}
	b.Values[y*b.Width+x] = v
	return true
}

// Fill sets every cell to v.
func (b *Buffer[T]) Fill(v T) {
	// Copy-doubling beats a plain loop on large buffers.
	n := len(b.Values)
	if n == 0 {
		return
	}
	b.Values[0] = v
	for i := 1; i < n; i *= 2 {
		copy(b.Values[i:], b.Values[:i])
	}
}

// DrawLine sets every cell on the segment from (x0, y0) to (x1, y1) using
// Bresenham's algorithm. Cells outside the buffer are skipped.
func (b *Buffer[T]) DrawLine(x0, y0, x1, y1 int, v T) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		b.Set(x0, y0, v)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GrayImage converts a luminance buffer with values in [0, 1] to an 8-bit
// grayscale image.
func GrayImage(lum *Buffer[float64]) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, lum.Width, lum.Height))
	for y := range lum.Height {
		for x := range lum.Width {
			v := lum.Values[y*lum.Width+x]
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(clamp01(v) * 255))})
		}
	}
	return img
}

// SavePNG writes a luminance buffer to path as a grayscale PNG.
func SavePNG(lum *Buffer[float64], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, GrayImage(lum)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
