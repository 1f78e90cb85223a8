package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fortio.org/log"
)

// Action tells the loop what to do after a frame callback returns.
type Action int

const (
	// Continue renders the frame and keeps looping.
	Continue Action = iota
	// Stop ends the loop without rendering another frame.
	Stop
)

// FrameCallback mutates the scene once per frame in response to input.
type FrameCallback interface {
	Update(state *RenderState, events []Event) Action
}

// FrameFunc adapts a function to FrameCallback.
type FrameFunc func(state *RenderState, events []Event) Action

// Update calls f.
func (f FrameFunc) Update(state *RenderState, events []Event) Action {
	return f(state, events)
}

// Loop runs frames at a fixed target rate.
type Loop struct {
	Interval time.Duration

	// Now and Sleep default to the time package.
	Now   func() time.Time
	Sleep func(time.Duration)

	fps fpsCounter
}

// NewLoop returns a loop that targets fps frames per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		Interval: time.Second / time.Duration(fps),
		Now:      time.Now,
		Sleep:    time.Sleep,
	}
}

// Run presents frames on term until a quit key arrives, cb returns Stop,
// ctx is cancelled or presenting fails. The terminal is closed on return.
func (l *Loop) Run(ctx context.Context, term Terminal, state *RenderState, cb FrameCallback) (err error) {
	now, sleep := l.Now, l.Sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	defer func() {
		if cerr := term.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close terminal: %w", cerr))
		}
	}()

	if w, h := term.Size(); w != state.width || h != state.height {
		state.Resize(w, h)
	}

	for frame := 0; ; frame++ {
		if ctx.Err() != nil {
			log.Debugf("loop cancelled after %d frames", frame)
			return nil
		}
		start := now()

		events := term.Events()
		for _, ev := range events {
			if IsQuit(ev) {
				log.Debugf("quit key after %d frames", frame)
				return nil
			}
			if rs, ok := ev.(ResizeEvent); ok {
				state.Resize(rs.Width, rs.Height)
			}
		}

		if cb != nil && cb.Update(state, events) == Stop {
			return nil
		}

		state.FPS = l.fps.tick(start)
		state.Render()
		state.Present(term)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display frame %d: %w", frame, err)
		}

		if elapsed := now().Sub(start); elapsed < l.Interval {
			sleep(l.Interval - elapsed)
		}
	}
}
