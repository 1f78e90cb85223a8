package render

import (
	"math"

	"github.com/taigrr/objterm/pkg/math3d"
)

// Rasterizer fills pixel-space triangles into a luminance buffer guarded by
// a depth buffer. Both buffers share the same dimensions and are reused
// across frames.
type Rasterizer struct {
	Luminance *Buffer[float64]
	Depth     *Buffer[float64]
}

// NewRasterizer creates a cleared rasterizer of the given size.
func NewRasterizer(width, height int) *Rasterizer {
	r := &Rasterizer{
		Luminance: NewBuffer[float64](width, height),
		Depth:     NewBuffer[float64](width, height),
	}
	r.Clear()
	return r
}

// Width returns the buffer width in pixels.
func (r *Rasterizer) Width() int { return r.Luminance.Width }

// Height returns the buffer height in pixels.
func (r *Rasterizer) Height() int { return r.Luminance.Height }

// Resize changes both buffers and clears them.
func (r *Rasterizer) Resize(width, height int) {
	r.Luminance.Resize(width, height)
	r.Depth.Resize(width, height)
	r.Clear()
}

// Clear resets luminance to 0 and depth to +Inf (call before each frame).
func (r *Rasterizer) Clear() {
	r.Luminance.Fill(0)
	r.Depth.Fill(math.Inf(1))
}

// Barycentric returns the weights (w0, w1, w2) of p relative to triangle
// a, b, c, so that p = w0*a + w1*b + w2*c and the weights sum to 1. The
// weights are all non-negative exactly when p lies inside or on the edge of
// the triangle, for either winding. ok is false when the triangle has zero
// area.
func Barycentric(p, a, b, c math3d.Vec2) (w math3d.Vec3, ok bool) {
	area := b.Sub(a).Cross(c.Sub(a))
	if area == 0 {
		return math3d.Vec3{}, false
	}
	pa, pb, pc := a.Sub(p), b.Sub(p), c.Sub(p)
	return math3d.V3(
		pb.Cross(pc)/area,
		pc.Cross(pa)/area,
		pa.Cross(pb)/area,
	), true
}

// Degenerate reports whether a pixel-space triangle cannot be filled: a
// coordinate is not finite, two vertices coincide, all x or all y are equal,
// or the signed area is zero or overflows.
func Degenerate(pts [3]math3d.Vec3) bool {
	for _, p := range pts {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return true
		}
	}
	a, b, c := pts[0].XY(), pts[1].XY(), pts[2].XY()
	if a == b || b == c || a == c {
		return true
	}
	if a.X == b.X && b.X == c.X {
		return true
	}
	if a.Y == b.Y && b.Y == c.Y {
		return true
	}
	area := b.Sub(a).Cross(c.Sub(a))
	return area == 0 || !finite(area)
}

// DrawTriangle rasterizes a triangle whose X and Y are pixel coordinates
// and whose Z is normalized depth. Pixel centres that fall inside it and
// pass the depth test (new <= stored) receive intensity. Pixels outside the
// buffer are ignored. It returns false if the triangle was rejected as
// degenerate.
func (r *Rasterizer) DrawTriangle(pts [3]math3d.Vec3, intensity float64) bool {
	if Degenerate(pts) {
		return false
	}

	w, h := r.Width(), r.Height()
	if w == 0 || h == 0 {
		return true
	}

	// Clamp in float space first; huge coordinates do not convert to int.
	minX := int(clampf(math.Floor(min3(pts[0].X, pts[1].X, pts[2].X)), 0, float64(w-1)))
	maxX := int(clampf(math.Ceil(max3(pts[0].X, pts[1].X, pts[2].X)), 0, float64(w-1)))
	minY := int(clampf(math.Floor(min3(pts[0].Y, pts[1].Y, pts[2].Y)), 0, float64(h-1)))
	maxY := int(clampf(math.Ceil(max3(pts[0].Y, pts[1].Y, pts[2].Y)), 0, float64(h-1)))

	a, b, c := pts[0].XY(), pts[1].XY(), pts[2].XY()
	z0 := pts[0].Z
	dz1, dz2 := pts[1].Z-z0, pts[2].Z-z0

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc, ok := Barycentric(math3d.V2(float64(x)+0.5, float64(y)+0.5), a, b, c)
			if !ok {
				return false
			}
			if !(bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0) {
				continue
			}

			z := z0 + bc.Y*dz1 + bc.Z*dz2
			i := y*w + x
			if z > r.Depth.Values[i] {
				continue
			}
			r.Depth.Values[i] = z
			r.Luminance.Values[i] = intensity
		}
	}
	return true
}

// Shade returns the luminance of a face with unit normal n lit by a
// directional light travelling along unit vector light. The signed
// diffuse term is blended with ambient before clamping to [0, 1], so faces
// turned away from the light fade below the ambient level to black.
func Shade(n, light math3d.Vec3, ambient float64) float64 {
	return clamp01(n.Dot(light.Negate())*(1-ambient) + ambient)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
