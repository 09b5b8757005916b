package zoom

import "github.com/go-gl/mathgl/mgl64"

// Script is a single press, held for Hold frames and then released.
type Script struct {
	X, Y float64
	In   bool
	Hold int
	// Limit caps the number of frames recorded.
	Limit int
}

// Sample is the view as rendered on one frame.
type Sample struct {
	Frame      int
	Center     mgl64.Vec2
	Size       float64
	Iterations int32
	Zooming    bool
}

type traceSink struct {
	frame   int
	zooming bool
	samples []Sample
}

func (t *traceSink) Render(v View) error {
	t.samples = append(t.samples, Sample{
		Frame:      t.frame,
		Center:     v.Center,
		Size:       v.Size,
		Iterations: v.Iterations,
		Zooming:    t.zooming,
	})
	t.frame++
	return nil
}

// Trace replays script against an animator without a display and returns
// every frame it would have rendered, stopping once the animator goes idle.
func Trace(params Params, initial State, script Script) ([]Sample, error) {
	sink := &traceSink{}
	a, err := NewAnimator(params, initial, sink)
	if err != nil {
		return nil, err
	}

	limit := script.Limit
	if limit <= 0 {
		limit = 10000
	}

	sink.zooming = true
	if err := a.Engage(script.X, script.Y, script.In); err != nil {
		return nil, err
	}

	for a.Pending() && len(sink.samples) < limit {
		if len(sink.samples) >= script.Hold && a.State().Zooming {
			a.Release()
			sink.zooming = false
		}
		if err := a.Frame(); err != nil {
			return nil, err
		}
	}

	return sink.samples, nil
}
