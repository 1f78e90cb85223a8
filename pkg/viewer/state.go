package viewer

import (
	"fmt"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/objterm/pkg/math3d"
	"github.com/taigrr/objterm/pkg/models"
	"github.com/taigrr/objterm/pkg/render"
)

// RenderState is everything a frame callback may change between frames.
type RenderState struct {
	Mesh     *models.Mesh
	Camera   *render.Camera
	Model    math3d.Mat4
	Options  render.Options
	Ramp     render.Ramp
	Renderer *render.Renderer

	DiagonalFOV float64 // radians, refitted to the viewport on resize
	CellAspect  float64

	ShowStatus bool
	ShowBounds bool
	Status     string // shown after the frame statistics

	FPS float64 // measured by the loop

	width, height int
	statusRow     bool // layout was computed with a status row
	cur, prev     *render.GlyphGrid
	changes       []render.CellChange
}

// NewRenderState prepares a scene for a width x height cell terminal.
func NewRenderState(mesh *models.Mesh, cam *render.Camera, ramp render.Ramp, width, height int) *RenderState {
	if len(ramp) == 0 {
		ramp = render.Ramp(render.DefaultGlyphs)
	}
	s := &RenderState{
		Mesh:        mesh,
		Camera:      cam,
		Model:       math3d.Identity(),
		Options:     render.DefaultOptions(),
		Ramp:        ramp,
		Renderer:    render.NewRenderer(0, 0),
		DiagonalFOV: math.Pi / 3,
		CellAspect:  render.DefaultCellAspect,
		ShowStatus:  true,
		cur:         render.NewGlyphGrid(0, 0),
		prev:        render.NewGlyphGrid(0, 0),
	}
	s.Resize(width, height)
	return s
}

// Size returns the terminal size in cells.
func (s *RenderState) Size() (width, height int) {
	return s.width, s.height
}

// ViewportSize returns the cells used for the picture, which excludes the
// status row when it is shown.
func (s *RenderState) ViewportSize() (width, height int) {
	height = s.height
	if s.statusRow {
		height--
	}
	return s.width, height
}

// Resize adapts the render buffers and camera to a new terminal size and
// forces the next Present to redraw every cell.
func (s *RenderState) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.layout()
}

func (s *RenderState) layout() {
	s.statusRow = s.ShowStatus && s.height > 1
	w, h := s.ViewportSize()
	s.Renderer.Resize(w, h)
	if w > 0 && h > 0 {
		s.Camera.FitFOV(s.DiagonalFOV, w, h, s.CellAspect)
	}
	s.Invalidate()
}

// Invalidate forgets what is on screen so the next Present writes every cell.
func (s *RenderState) Invalidate() {
	s.prev.Resize(0, 0)
}

// Render draws the scene into the renderer and quantizes it into glyphs.
func (s *RenderState) Render() {
	if s.statusRow != (s.ShowStatus && s.height > 1) {
		s.layout()
	}

	s.Renderer.BeginFrame()
	s.Renderer.DrawMesh(s.Camera, s.Mesh, s.Model, s.Options)
	if s.ShowBounds && s.Mesh != nil {
		if box, ok := s.Mesh.Bounds(); ok {
			s.Renderer.DrawBox(s.Camera, box, render.WireValue)
		}
	}
	s.cur.FromLuminance(s.Renderer.Luminance(), s.Ramp)
}

// Present writes the cells that changed since the last Present and the
// status row, and returns the number of picture cells written. After a
// resize or Invalidate the whole picture is redrawn.
func (s *RenderState) Present(scr uv.Screen) int {
	w, h := s.ViewportSize()
	area := uv.Rect(0, 0, w, h)

	var n int
	if s.prev.Width != s.cur.Width || s.prev.Height != s.cur.Height {
		s.cur.Draw(scr, area)
		n = s.cur.Width * s.cur.Height
	} else {
		s.changes = s.cur.Diff(s.prev, s.changes[:0])
		render.DrawChanges(scr, area, s.changes)
		n = len(s.changes)
	}
	if s.statusRow {
		render.DrawStatus(scr, uv.Rect(0, 0, s.width, s.height), s.height-1, s.StatusLine())
	}
	s.cur, s.prev = s.prev, s.cur
	return n
}

// Frame returns the glyphs of the most recently presented frame.
func (s *RenderState) Frame() *render.GlyphGrid {
	return s.prev
}

// StatusLine formats the frame statistics shown on the status row.
func (s *RenderState) StatusLine() string {
	st := s.Renderer.Stats
	name := "mesh"
	if s.Mesh != nil && s.Mesh.Name != "" {
		name = s.Mesh.Name
	}
	line := fmt.Sprintf(" %s | %d tris | drawn %d | culled %d | %.0f fps",
		name, st.Triangles, st.Drawn, st.Culled(), s.FPS)
	if s.Status != "" {
		line += " | " + s.Status
	}
	return line
}

// FitDistance returns how far from the centre of box the camera must be for
// the whole box to fit in its narrower field of view, scaled by factor.
func FitDistance(cam *render.Camera, box math3d.BoundingBox, factor float64) float64 {
	radius := box.LongestDistanceFromPoint(box.Center())
	half := math.Min(cam.HorizontalFOV, cam.VerticalFOV) / 2
	if radius == 0 || half <= 0 {
		return math.Max(factor, cam.Near*2)
	}
	return radius / math.Sin(half) * factor
}

// fpsCounter averages frames over roughly one second.
type fpsCounter struct {
	frames int
	since  time.Time
	fps    float64
}

func (c *fpsCounter) tick(now time.Time) float64 {
	if c.since.IsZero() {
		c.since = now
	}
	c.frames++
	if elapsed := now.Sub(c.since); elapsed >= time.Second {
		c.fps = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = now
	}
	return c.fps
}
