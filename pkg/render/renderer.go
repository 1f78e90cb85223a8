package render

import (
	"math"

	"github.com/taigrr/objterm/pkg/math3d"
	"github.com/taigrr/objterm/pkg/models"
)

// DefaultLight is the direction light travels in: down, left and away
// from a camera on the +Z axis.
var DefaultLight = math3d.V3(-0.3, -0.5, -0.5).Normalize()

// Options controls how a mesh is shaded and which triangles are skipped.
type Options struct {
	Light           math3d.Vec3 // unit direction the light travels in
	Ambient         float64     // luminance floor in [0, 1]
	BackfaceCulling bool
	FrustumCulling  bool // skip meshes whose bounds are outside the view
	Wireframe       bool // draw unique edges instead of filled faces
}

// DefaultOptions returns lit, culled, filled rendering.
func DefaultOptions() Options {
	return Options{
		Light:           DefaultLight,
		Ambient:         0.1,
		BackfaceCulling: true,
		FrustumCulling:  true,
	}
}

// Stats counts what happened to triangles during a frame.
type Stats struct {
	Triangles      int // triangles considered
	Drawn          int // triangles handed to the rasterizer
	BackfaceCulled int // facing away from the camera
	ClipCulled     int // behind the camera or outside the screen
	Degenerate     int // zero area after projection
	MeshesCulled   int // meshes rejected by the frustum test
}

// Culled returns the number of triangles skipped for any reason.
func (s Stats) Culled() int {
	return s.BackfaceCulled + s.ClipCulled + s.Degenerate
}

// Renderer owns the per-frame scratch state used to draw meshes: the
// rasterizer buffers and the transformed point arrays. It holds no camera,
// mesh or light; those are passed to DrawMesh.
type Renderer struct {
	raster *Rasterizer
	Stats  Stats

	world []math3d.Vec3
	clip  []math3d.Vec4
}

// NewRenderer creates a renderer for a width x height pixel grid.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{raster: NewRasterizer(width, height)}
}

// Rasterizer returns the underlying rasterizer.
func (r *Renderer) Rasterizer() *Rasterizer { return r.raster }

// Luminance returns the luminance buffer of the last frame.
func (r *Renderer) Luminance() *Buffer[float64] { return r.raster.Luminance }

// Width returns the pixel width.
func (r *Renderer) Width() int { return r.raster.Width() }

// Height returns the pixel height.
func (r *Renderer) Height() int { return r.raster.Height() }

// Resize changes the pixel grid.
func (r *Renderer) Resize(width, height int) {
	r.raster.Resize(width, height)
}

// BeginFrame clears the buffers and statistics.
func (r *Renderer) BeginFrame() {
	r.raster.Clear()
	r.Stats = Stats{}
}

// DrawMesh renders mesh transformed by model as seen from cam. model must
// be a rotation, translation or uniform scale so that normals survive it.
func (r *Renderer) DrawMesh(cam *Camera, mesh *models.Mesh, model math3d.Mat4, opts Options) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return
	}

	r.transform(mesh, model, cam.WorldToScreenMatrix())

	if opts.FrustumCulling {
		if box, ok := math3d.NewBoundingBox(r.world); ok && !cam.Frustum().IntersectBox(box) {
			r.Stats.MeshesCulled++
			r.Stats.Triangles += len(mesh.Triangles)
			r.Stats.ClipCulled += len(mesh.Triangles)
			return
		}
	}

	if opts.Wireframe {
		r.drawEdges(mesh)
		return
	}

	light := opts.Light
	if light.IsZero() {
		light = DefaultLight
	}
	light = light.Normalize()

	for _, tri := range mesh.Triangles {
		r.Stats.Triangles++

		normal := model.MulVec3Dir(tri.Normal).Normalize()
		if opts.BackfaceCulling && normal.Dot(cam.Position.Sub(r.world[tri.P1])) <= 0 {
			r.Stats.BackfaceCulled++
			continue
		}

		c := [3]math3d.Vec4{r.clip[tri.P1], r.clip[tri.P2], r.clip[tri.P3]}
		if c[0].W <= 0 && c[1].W <= 0 && c[2].W <= 0 {
			r.Stats.ClipCulled++
			continue
		}
		// Triangles are not clipped, so one that reaches past the near
		// plane cannot be projected and is dropped whole.
		if c[0].Z < 0 || c[1].Z < 0 || c[2].Z < 0 {
			r.Stats.ClipCulled++
			continue
		}

		var ndc [3]math3d.Vec3
		ok := true
		for i := range c {
			p, err := c[i].PerspectiveDivide()
			if err != nil {
				ok = false
				break
			}
			ndc[i] = p
		}
		if !ok {
			r.Stats.Degenerate++
			continue
		}
		if !intersectsScreen(ndc) {
			r.Stats.ClipCulled++
			continue
		}

		px := [3]math3d.Vec3{
			NDCToPixel(ndc[0], r.Width(), r.Height()),
			NDCToPixel(ndc[1], r.Width(), r.Height()),
			NDCToPixel(ndc[2], r.Width(), r.Height()),
		}
		if r.raster.DrawTriangle(px, Shade(normal, light, opts.Ambient)) {
			r.Stats.Drawn++
		} else {
			r.Stats.Degenerate++
		}
	}
}

// transform fills the world and clip scratch arrays for every mesh point.
func (r *Renderer) transform(mesh *models.Mesh, model, viewProj math3d.Mat4) {
	n := len(mesh.Points)
	if cap(r.world) < n {
		r.world = make([]math3d.Vec3, n)
		r.clip = make([]math3d.Vec4, n)
	}
	r.world = r.world[:n]
	r.clip = r.clip[:n]

	for i, p := range mesh.Points {
		w := model.MulVec4(math3d.V4FromV3(p, 1)).Vec3()
		r.world[i] = w
		r.clip[i] = viewProj.MulVec4(math3d.V4FromV3(w, 1))
	}
}

// intersectsScreen reports whether the xy projection of an NDC triangle
// overlaps the [-1, 1] square. It is a separating axis test over the two
// square axes and the three edge normals.
func intersectsScreen(t [3]math3d.Vec3) bool {
	if max3(t[0].X, t[1].X, t[2].X) < -1 || min3(t[0].X, t[1].X, t[2].X) > 1 {
		return false
	}
	if max3(t[0].Y, t[1].Y, t[2].Y) < -1 || min3(t[0].Y, t[1].Y, t[2].Y) > 1 {
		return false
	}
	for i := range 3 {
		a, b := t[i].XY(), t[(i+1)%3].XY()
		axis := math3d.V2(a.Y-b.Y, b.X-a.X)
		p0 := axis.X*t[0].X + axis.Y*t[0].Y
		p1 := axis.X*t[1].X + axis.Y*t[1].Y
		p2 := axis.X*t[2].X + axis.Y*t[2].Y
		lo, hi := min3(p0, p1, p2), max3(p0, p1, p2)
		r := math.Abs(axis.X) + math.Abs(axis.Y)
		if hi < -r || lo > r {
			return false
		}
	}
	return true
}
