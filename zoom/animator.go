package zoom

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrClosed is returned by a FrameSource once its display has gone away.
var ErrClosed = errors.New("frame source closed")

// View is what a Sink needs to draw one frame.
type View struct {
	Center     mgl64.Vec2
	Size       float64
	Iterations int32
}

// Sink draws frames.
type Sink interface {
	Render(View) error
}

// FrameSource paces the frame loop.
//
// NextFrame blocks until the display is ready for another frame when
// animating is true, or until input arrives when it is false.
type FrameSource interface {
	NextFrame(ctx context.Context, animating bool) error
}

// Animator owns a State and drives it one rendered frame at a time.
// It is not safe for concurrent use; all methods must be called from the
// thread that owns the display.
type Animator struct {
	params  Params
	initial State
	state   State
	sink    Sink
	pending bool
}

func NewAnimator(params Params, initial State, sink Sink) (*Animator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if initial.Size <= 0 {
		return nil, fmt.Errorf("%w: initial size %v must be positive", ErrInvalidParams, initial.Size)
	}
	if initial.MinIterations > initial.MaxIterations {
		return nil, fmt.Errorf("%w: min iterations %v above max iterations %v",
			ErrInvalidParams, initial.MinIterations, initial.MaxIterations)
	}

	return &Animator{
		params:  params,
		initial: initial,
		state:   initial,
		sink:    sink,
		pending: true,
	}, nil
}

func (a *Animator) State() State {
	return a.state
}

func (a *Animator) Params() Params {
	return a.params
}

// Pending reports whether the animator wants another frame.
func (a *Animator) Pending() bool {
	return a.pending
}

// Invalidate requests a redraw without changing the view.
func (a *Animator) Invalidate() {
	a.pending = true
}

// Engage starts a zoom toward the viewport fraction (fx, fy) and renders a
// frame straight away rather than waiting for the next tick.
func (a *Animator) Engage(fx, fy float64, in bool) error {
	a.state = a.state.Engage(a.params, fx, fy, in)
	return a.Frame()
}

func (a *Animator) Release() {
	a.state = a.state.Release()
}

// Scroll zooms one notch around the current center. The view is redrawn
// without stepping the animation.
func (a *Animator) Scroll(in bool) error {
	f := 1.1
	if in {
		f = 0.9
	}
	a.state = a.state.Scale(a.params, f)
	return a.draw()
}

// Reset returns to the initial view.
func (a *Animator) Reset() error {
	a.state = a.initial
	return a.Frame()
}

// Frame renders the current state and then advances it.
func (a *Animator) Frame() error {
	if err := a.draw(); err != nil {
		return err
	}

	a.state, a.pending = a.state.Advance(a.params)
	return nil
}

func (a *Animator) draw() error {
	err := a.sink.Render(View{
		Center:     a.state.Center,
		Size:       a.state.Size,
		Iterations: a.state.Iterations,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Run drives frames from src until ctx is done or src closes.
func (a *Animator) Run(ctx context.Context, src FrameSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return context.Cause(ctx)
		}

		err := src.NextFrame(ctx, a.pending)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return err
		}

		if !a.pending {
			continue
		}

		if err := a.Frame(); err != nil {
			return err
		}
	}
}
