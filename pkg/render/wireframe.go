package render

import (
	"math"

	"github.com/taigrr/objterm/pkg/math3d"
	"github.com/taigrr/objterm/pkg/models"
)

// WireValue is the luminance written for wireframe lines.
const WireValue = 1.0

// box edges as pairs of math3d.BoundingBox.Corners indices.
var boxEdges = [12][2]int{
	// Back face
	{0, 1},
	{1, 3},
	{3, 2},
	{2, 0},
	// Front face
	{4, 5},
	{5, 7},
	{7, 6},
	{6, 4},
	// Connecting edges
	{0, 4},
	{1, 5},
	{2, 6},
	{3, 7},
}

// drawEdges draws every unique mesh edge using the clip coordinates left in
// the scratch array by transform.
func (r *Renderer) drawEdges(mesh *models.Mesh) {
	r.Stats.Triangles += len(mesh.Triangles)
	r.Stats.Drawn += len(mesh.Triangles)
	for _, e := range mesh.Edges() {
		r.drawProjectedLine(r.clip[e.A], r.clip[e.B], WireValue)
	}
}

// DrawLine3D draws the segment between two world points. Segments with an
// end behind the near plane are dropped. Lines ignore the depth buffer.
func (r *Renderer) DrawLine3D(cam *Camera, a, b math3d.Vec3, value float64) {
	vp := cam.WorldToScreenMatrix()
	r.drawProjectedLine(
		vp.MulVec4(math3d.V4FromV3(a, 1)),
		vp.MulVec4(math3d.V4FromV3(b, 1)),
		value,
	)
}

// DrawBox draws the twelve edges of an axis-aligned box.
func (r *Renderer) DrawBox(cam *Camera, box math3d.BoundingBox, value float64) {
	corners := box.Corners()
	for _, e := range boxEdges {
		r.DrawLine3D(cam, corners[e[0]], corners[e[1]], value)
	}
}

func (r *Renderer) drawProjectedLine(a, b math3d.Vec4, value float64) {
	// Edges reaching past the near plane are skipped, not clipped.
	if a.Z < 0 || b.Z < 0 {
		return
	}

	na, errA := a.PerspectiveDivide()
	nb, errB := b.PerspectiveDivide()
	if errA != nil || errB != nil {
		return
	}
	pa := NDCToPixel(na, r.Width(), r.Height())
	pb := NDCToPixel(nb, r.Width(), r.Height())
	if !lineInRange(pa) || !lineInRange(pb) {
		return
	}
	r.raster.Luminance.DrawLine(
		int(math.Floor(pa.X)), int(math.Floor(pa.Y)),
		int(math.Floor(pb.X)), int(math.Floor(pb.Y)),
		value,
	)
}

// lineInRange rejects endpoints so far away that Bresenham would spend
// unbounded time walking off-screen cells.
func lineInRange(p math3d.Vec3) bool {
	const limit = 1 << 16
	return math.Abs(p.X) < limit && math.Abs(p.Y) < limit
}
