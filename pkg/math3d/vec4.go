package math3d

import (
	"errors"
	"math"
)

// ErrDegenerateW is returned when a homogeneous coordinate has w too close
// to zero to divide by.
var ErrDegenerateW = errors.New("math3d: homogeneous w is zero")

// minW is the smallest |w| PerspectiveDivide accepts.
const minW = 1e-12

// Vec4 is a homogeneous 3D point.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 lifts v into homogeneous space with the given w.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 returns X, Y and Z without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns (X/W, Y/W, Z/W).
// It fails with ErrDegenerateW instead of substituting a value for w.
func (v Vec4) PerspectiveDivide() (Vec3, error) {
	if math.Abs(v.W) < minW || math.IsNaN(v.W) {
		return Vec3{}, ErrDegenerateW
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, nil
}

// Dot returns the 4D dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}
