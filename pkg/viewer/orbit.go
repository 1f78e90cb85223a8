package viewer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/taigrr/objterm/pkg/math3d"
)

// Orbit is a FrameCallback that circles the camera around a target. Mouse
// drags rotate, the wheel zooms and the keyboard pans, spins and toggles
// render options.
type Orbit struct {
	Target   math3d.Vec3
	Distance float64

	MinDistance, MaxDistance float64

	// Sensitivity is the rotation in radians for a drag across the
	// whole viewport height.
	Sensitivity float64
	// PanStep is the fraction of Distance moved per pan key press.
	PanStep float64

	pitch, yaw         float64 // committed rotation
	dragPitch, dragYaw float64 // rotation of the drag in progress
	dragging           bool
	dragKey            bool // rotate on plain mouse motion
	startX, startY     int

	spinPitch, spinYaw SpinAxis

	home struct {
		target          math3d.Vec3
		distance        float64
		pitch, yaw      float64
		wireframe, cull bool
		captured        bool
	}
}

// NewOrbit creates a controller looking at target from distance, with
// spin easing stepped fps times per second.
func NewOrbit(target math3d.Vec3, distance float64, fps int) *Orbit {
	o := &Orbit{
		Target:      target,
		Distance:    distance,
		MinDistance: distance * 0.05,
		MaxDistance: distance * 20,
		Sensitivity: 2.0,
		PanStep:     0.05,
		spinPitch:   NewSpinAxis(fps),
		spinYaw:     NewSpinAxis(fps),
	}
	o.home.target = target
	o.home.distance = distance
	return o
}

// SetRotation sets the committed pitch and yaw in radians.
func (o *Orbit) SetRotation(pitch, yaw float64) {
	o.pitch, o.yaw = pitch, yaw
	o.home.pitch, o.home.yaw = pitch, yaw
}

// Rotation returns the pitch and yaw applied to the camera this frame.
func (o *Orbit) Rotation() (pitch, yaw float64) {
	return o.pitch + o.dragPitch + o.spinPitch.Angle, o.yaw + o.dragYaw + o.spinYaw.Angle
}

// DragKey reports whether plain mouse motion rotates.
func (o *Orbit) DragKey() bool { return o.dragKey }

// Update implements FrameCallback.
func (o *Orbit) Update(state *RenderState, events []Event) Action {
	if !o.home.captured {
		o.home.wireframe = state.Options.Wireframe
		o.home.cull = state.Options.BackfaceCulling
		o.home.captured = true
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case MouseEvent:
			o.handleMouse(state, ev)
		case KeyEvent:
			o.handleKey(state, ev)
		}
	}

	o.spinPitch.Update()
	o.spinYaw.Update()

	pitch, yaw := o.Rotation()
	state.Camera.Orbit(o.Target, o.Distance, pitch, yaw)
	state.Status = o.status()
	return Continue
}

func (o *Orbit) status() string {
	s := fmt.Sprintf("dist %.2f", o.Distance)
	if o.dragKey {
		s += " | drag key"
	}
	return s
}

func (o *Orbit) handleMouse(state *RenderState, ev MouseEvent) {
	rotates := (ev.Button == ButtonLeft || ev.Button == ButtonMiddle) && ev.Mods == 0
	switch ev.Kind {
	case MousePress:
		if rotates {
			o.beginDrag(ev.X, ev.Y)
		}
	case MouseRelease:
		o.endDrag()
	case MouseDrag:
		if !rotates {
			return
		}
		if !o.dragging {
			o.beginDrag(ev.X, ev.Y)
		}
		o.drag(state, ev.X, ev.Y)
	case MouseMove:
		if !o.dragKey {
			return
		}
		if !o.dragging {
			o.beginDrag(ev.X, ev.Y)
		}
		o.drag(state, ev.X, ev.Y)
	case MouseWheelUp:
		o.Zoom(0.9)
	case MouseWheelDown:
		o.Zoom(1 / 0.9)
	}
}

func (o *Orbit) beginDrag(x, y int) {
	o.endDrag()
	o.dragging = true
	o.startX, o.startY = x, y
}

func (o *Orbit) endDrag() {
	o.pitch += o.dragPitch
	o.yaw += o.dragYaw
	o.dragPitch, o.dragYaw = 0, 0
	o.dragging = false
}

// drag sets the rotation of the drag in progress from the offset to its
// start. A vertical drag across the viewport turns Sensitivity radians; a
// horizontal one turns the same angle per row-height of columns.
func (o *Orbit) drag(state *RenderState, x, y int) {
	cols, rows := state.ViewportSize()
	if cols <= 0 || rows <= 0 {
		return
	}
	dx := float64(x - o.startX)
	dy := float64(y - o.startY)
	o.dragPitch = dy / float64(rows) * o.Sensitivity * state.CellAspect
	o.dragYaw = -dx / float64(cols) * o.Sensitivity * float64(cols) / float64(rows)
}

// Zoom multiplies the distance by f within [MinDistance, MaxDistance].
func (o *Orbit) Zoom(f float64) {
	d := o.Distance * f
	if o.MinDistance > 0 {
		d = math.Max(d, o.MinDistance)
	}
	if o.MaxDistance > 0 {
		d = math.Min(d, o.MaxDistance)
	}
	o.Distance = d
}

// Pan moves the target by (right, up, forward) steps in the camera frame.
func (o *Orbit) Pan(right, up, forward float64) {
	pitch, yaw := o.Rotation()
	step := o.Distance * o.PanStep
	fwd := math3d.V3(-math.Sin(yaw)*math.Cos(pitch), -math.Sin(pitch), -math.Cos(yaw)*math.Cos(pitch))
	r := math3d.V3(math.Cos(yaw), 0, -math.Sin(yaw))
	u := r.Cross(fwd)
	move := r.Scale(right).Add(u.Scale(up)).Add(fwd.Scale(forward)).Scale(step)
	o.Target = o.Target.Add(move)
}

// Spin adds rotational velocity in radians per frame.
func (o *Orbit) Spin(pitch, yaw float64) {
	o.spinPitch.Impulse(pitch)
	o.spinYaw.Impulse(yaw)
}

// Reset restores the starting view and render toggles.
func (o *Orbit) Reset(state *RenderState) {
	o.endDrag()
	o.Target = o.home.target
	o.Distance = o.home.distance
	o.pitch, o.yaw = o.home.pitch, o.home.yaw
	o.spinPitch.Stop()
	o.spinYaw.Stop()
	o.spinPitch.Angle, o.spinYaw.Angle = 0, 0
	o.dragKey = false
	state.Options.Wireframe = o.home.wireframe
	state.Options.BackfaceCulling = o.home.cull
}

func (o *Orbit) handleKey(state *RenderState, ev KeyEvent) {
	const impulse = 0.03
	switch ev.Key {
	case "c":
		o.dragKey = !o.dragKey
		if !o.dragKey {
			o.endDrag()
		}
	case "w":
		o.Pan(0, 0, 1)
	case "s":
		o.Pan(0, 0, -1)
	case "a":
		o.Pan(-1, 0, 0)
	case "d":
		o.Pan(1, 0, 0)
	case "r":
		o.Pan(0, 1, 0)
	case "f":
		o.Pan(0, -1, 0)
	case "up":
		o.Spin(-impulse, 0)
	case "down":
		o.Spin(impulse, 0)
	case "left":
		o.Spin(0, impulse)
	case "right":
		o.Spin(0, -impulse)
	case "space":
		o.Spin((rand.Float64()-0.5)*impulse*2, (rand.Float64()-0.5)*impulse*4)
	case "+", "=":
		o.Zoom(0.9)
	case "-", "_":
		o.Zoom(1 / 0.9)
	case "x":
		state.Options.Wireframe = !state.Options.Wireframe
	case "b":
		state.ShowBounds = !state.ShowBounds
	case "p":
		state.Options.BackfaceCulling = !state.Options.BackfaceCulling
	case "?", "h":
		state.ShowStatus = !state.ShowStatus
	case "0":
		o.Reset(state)
	}
}
