package viewer

import "github.com/charmbracelet/harmonica"

// SpinAxis is one rotation angle that keeps turning after an impulse and
// eases back to rest.
type SpinAxis struct {
	Angle    float64
	Velocity float64
	spring   harmonica.Spring
	accel    float64 // spring velocity of Velocity itself
}

// NewSpinAxis returns an axis at rest, stepped fps times per second.
func NewSpinAxis(fps int) SpinAxis {
	if fps <= 0 {
		fps = 1
	}
	return SpinAxis{
		// Critically damped so the spin never reverses.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the angle by one frame and decays the velocity.
func (a *SpinAxis) Update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Impulse adds v radians per frame to the velocity.
func (a *SpinAxis) Impulse(v float64) {
	a.Velocity += v
}

// Stop zeroes the velocity and keeps the angle.
func (a *SpinAxis) Stop() {
	a.Velocity, a.accel = 0, 0
}

// Moving reports whether the axis still turns noticeably.
func (a *SpinAxis) Moving() bool {
	const rest = 1e-4
	return a.Velocity > rest || a.Velocity < -rest
}
