package render

import (
	"math"

	"github.com/taigrr/objterm/pkg/math3d"
)

// DefaultCellAspect is the height of a terminal cell divided by its width.
const DefaultCellAspect = 2.0

// Camera is a right-handed perspective camera that looks down -Z when
// unrotated. RotationY (yaw) is applied before RotationX (pitch).
type Camera struct {
	Position math3d.Vec3

	RotationX float64 // pitch, radians
	RotationY float64 // yaw, radians

	HorizontalFOV float64 // radians
	VerticalFOV   float64 // radians
	Near          float64
	Far           float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin.
func NewCamera() *Camera {
	h, v := FieldOfView(math.Pi/3, 1)
	return &Camera{
		Position:      math3d.V3(0, 0, 5),
		HorizontalFOV: h,
		VerticalFOV:   v,
		Near:          0.1,
		Far:           100,
		viewDirty:     true,
		projDirty:     true,
	}
}

// FieldOfView splits a diagonal field of view into horizontal and vertical
// angles. aspect is the viewport height divided by its width.
func FieldOfView(diagonal, aspect float64) (horizontal, vertical float64) {
	theta := math.Atan(aspect)
	t := math.Tan(diagonal / 2)
	return 2 * math.Atan(t*math.Cos(theta)), 2 * math.Atan(t*math.Sin(theta))
}

// ViewportAspect returns the physical height/width ratio of a grid of
// columns x rows cells whose height is cellAspect times their width.
func ViewportAspect(columns, rows int, cellAspect float64) float64 {
	if columns <= 0 {
		return 1
	}
	return float64(rows) * cellAspect / float64(columns)
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch and yaw in radians.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.RotationX = pitch
	c.RotationY = yaw
	c.viewDirty = true
}

// SetFOV sets the horizontal and vertical field of view in radians.
func (c *Camera) SetFOV(horizontal, vertical float64) {
	c.HorizontalFOV = horizontal
	c.VerticalFOV = vertical
	c.projDirty = true
}

// FitFOV derives both angles from a diagonal field of view for a grid of
// columns x rows terminal cells.
func (c *Camera) FitFOV(diagonal float64, columns, rows int, cellAspect float64) {
	c.SetFOV(FieldOfView(diagonal, ViewportAspect(columns, rows, cellAspect)))
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Orbit places the camera distance units from target at the given pitch and
// yaw and turns it to face target.
func (c *Camera) Orbit(target math3d.Vec3, distance, pitch, yaw float64) {
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	c.Position = target.Add(offset)
	c.RotationX = -pitch
	c.RotationY = yaw
	c.viewDirty = true
}

// Forward returns the unit direction the camera looks along.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.RotationY)*math.Cos(c.RotationX),
		math.Sin(c.RotationX),
		-math.Cos(c.RotationY)*math.Cos(c.RotationX),
	)
}

// ViewMatrix returns the world to camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.RotationX).Mul(math3d.RotateY(-c.RotationY))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the camera to clip space transform.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.HorizontalFOV, c.VerticalFOV, c.Near, c.Far)
		c.projDirty = false
		c.vpDirty = true
	}
	return c.projMatrix
}

// WorldToScreenMatrix returns projection * view. Points transformed by it
// and divided by w land in [-1, 1] on x and y when visible.
func (c *Camera) WorldToScreenMatrix() math3d.Mat4 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProjMatrix = proj.Mul(view)
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// Project maps a world point onto a width x height pixel grid. The returned
// Z is the normalized depth, 0 at the near plane and 1 at the far plane.
func (c *Camera) Project(p math3d.Vec3, width, height int) (math3d.Vec3, error) {
	ndc, err := c.WorldToScreenMatrix().TransformPoint(p)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return NDCToPixel(ndc, width, height), nil
}

// NDCToPixel applies the screen to pixel transform to ndc.
func NDCToPixel(ndc math3d.Vec3, width, height int) math3d.Vec3 {
	// The screen to pixel matrix is affine; skip the divide.
	return math3d.ScreenToPixel(width, height).MulVec4(math3d.V4FromV3(ndc, 1)).Vec3()
}
