package zoom

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidParams = errors.New("invalid zoom parameters")

// Recovery selects how the iteration budget returns to its ceiling once
// zooming stops.
type Recovery string

const (
	// RecoveryRamp adds Step per frame until the ceiling is reached.
	RecoveryRamp Recovery = "ramp"
	// RecoverySnap restores the ceiling in a single frame.
	RecoverySnap Recovery = "snap"
)

// Params are the constants an animator runs with.
type Params struct {
	Step     int32
	ZoomIn   float64
	ZoomOut  float64
	Blend    float64
	Recovery Recovery

	// MinSize is the deepest zoom allowed. Zero means no floor.
	MinSize float64
	// MaxSize bounds zooming out with the scroll wheel. Zero means no ceiling.
	MaxSize float64
}

func DefaultParams() Params {
	return Params{
		Step:     10,
		ZoomIn:   0.99,
		ZoomOut:  1.01,
		Blend:    0.1,
		Recovery: RecoveryRamp,
		MaxSize:  8,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Step <= 0:
		return fmt.Errorf("%w: step %v must be positive", ErrInvalidParams, p.Step)
	case p.ZoomIn <= 0 || p.ZoomIn >= 1:
		return fmt.Errorf("%w: zoom in factor %v must be in (0, 1)", ErrInvalidParams, p.ZoomIn)
	case p.ZoomOut <= 1:
		return fmt.Errorf("%w: zoom out factor %v must be greater than 1", ErrInvalidParams, p.ZoomOut)
	case p.Blend <= 0 || p.Blend > 1:
		return fmt.Errorf("%w: blend %v must be in (0, 1]", ErrInvalidParams, p.Blend)
	case p.MinSize < 0 || p.MaxSize < 0:
		return fmt.Errorf("%w: size limits must not be negative", ErrInvalidParams)
	case p.MaxSize != 0 && p.MaxSize < p.MinSize:
		return fmt.Errorf("%w: max size %v below min size %v", ErrInvalidParams, p.MaxSize, p.MinSize)
	}

	switch p.Recovery {
	case RecoveryRamp, RecoverySnap:
		return nil
	default:
		return fmt.Errorf("%w: unknown recovery %q", ErrInvalidParams, p.Recovery)
	}
}

// State is the view a fractal is rendered with, plus the zoom in progress.
type State struct {
	Center mgl64.Vec2
	// Target is only meaningful while Zooming.
	Target mgl64.Vec2
	Size   float64

	Iterations    int32
	MaxIterations int32
	MinIterations int32

	Factor  float64
	Zooming bool
}

// NewState returns the initial view: the origin, four units wide, at full detail.
func NewState(minIterations, maxIterations int32) State {
	if minIterations > maxIterations {
		minIterations = maxIterations
	}

	return State{
		Size:          4,
		Iterations:    maxIterations,
		MaxIterations: maxIterations,
		MinIterations: minIterations,
		Factor:        1,
	}
}

// At maps a viewport fraction, measured from the top left corner, to the
// fractal coordinate displayed there.
func (s State) At(fx, fy float64) mgl64.Vec2 {
	return mgl64.Vec2{
		s.Center[0] - s.Size/2 + fx*s.Size,
		s.Center[1] + s.Size/2 - fy*s.Size,
	}
}

// Engage starts zooming toward the point under the pointer.
func (s State) Engage(p Params, fx, fy float64, in bool) State {
	s.Target = s.At(clamp01(fx), clamp01(fy))
	s.Zooming = true
	if in {
		s.Factor = p.ZoomIn
	} else {
		s.Factor = p.ZoomOut
	}
	return s
}

// Release stops zooming. Target is left as it was.
func (s State) Release() State {
	s.Zooming = false
	return s
}

// Advance performs one frame step and reports whether another frame is needed.
func (s State) Advance(p Params) (State, bool) {
	if s.Zooming {
		s.Iterations -= p.Step
		if s.Iterations < s.MinIterations {
			s.Iterations = s.MinIterations
		}

		s.Size = limitSize(p, s.Size*s.Factor)

		s.Center = s.Center.Add(s.Target.Sub(s.Center).Mul(p.Blend))
		return s, true
	}

	if s.Iterations < s.MaxIterations {
		if p.Recovery == RecoverySnap {
			s.Iterations = s.MaxIterations
		} else {
			s.Iterations += p.Step
			if s.Iterations > s.MaxIterations {
				s.Iterations = s.MaxIterations
			}
		}
		return s, true
	}

	return s, false
}

// Scale multiplies Size by f, keeping it within the limits in p.
func (s State) Scale(p Params, f float64) State {
	if f <= 0 {
		return s
	}

	s.Size = limitSize(p, s.Size*f)
	if p.MaxSize > 0 && s.Size > p.MaxSize {
		s.Size = p.MaxSize
	}
	return s
}

// limitSize keeps size positive and at or above p.MinSize.
func limitSize(p Params, size float64) float64 {
	if p.MinSize > 0 && size < p.MinSize {
		return p.MinSize
	}
	if size <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return size
}

func clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}
