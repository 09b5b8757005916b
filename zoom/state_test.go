package zoom

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestEngageCenterMapsToCenter(t *testing.T) {
	g := NewWithT(t)

	s := NewState(50, 500).Engage(DefaultParams(), 0.5, 0.5, true)

	g.Expect(s.Target).To(Equal(mgl64.Vec2{0, 0}))
	g.Expect(s.Zooming).To(BeTrue())
	g.Expect(s.Factor).To(Equal(0.99))
}

func TestEngageCorners(t *testing.T) {
	tests := []struct {
		name   string
		fx, fy float64
		want   mgl64.Vec2
	}{
		{"top left", 0, 0, mgl64.Vec2{-2, 2}},
		{"bottom right", 1, 1, mgl64.Vec2{2, -2}},
		{"top right", 1, 0, mgl64.Vec2{2, 2}},
		{"quarter", 0.25, 0.75, mgl64.Vec2{-1, -1}},
		{"clamped", -3, 7, mgl64.Vec2{-2, -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(50, 500).Engage(DefaultParams(), tt.fx, tt.fy, true)
			if !s.Target.ApproxEqual(tt.want) {
				t.Errorf("Target = %v, want %v", s.Target, tt.want)
			}
		})
	}
}

func TestEngageOffsetCenter(t *testing.T) {
	s := NewState(50, 500)
	s.Center = mgl64.Vec2{1, -1}
	s.Size = 2

	s = s.Engage(DefaultParams(), 0, 0, false)
	if !s.Target.ApproxEqual(mgl64.Vec2{0, 0}) {
		t.Errorf("Target = %v, want (0, 0)", s.Target)
	}
	if s.Factor != 1.01 {
		t.Errorf("Factor = %v, want 1.01", s.Factor)
	}
}

func TestReleaseKeepsTarget(t *testing.T) {
	s := NewState(50, 500).Engage(DefaultParams(), 0, 0, true)
	r := s.Release()

	if r.Zooming {
		t.Error("Zooming = true after release")
	}
	if r.Target != s.Target {
		t.Errorf("Target = %v, want %v", r.Target, s.Target)
	}
}

func TestAdvanceZoomingBudgetNonIncreasing(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams()

	s := NewState(50, 500).Engage(p, 0.3, 0.6, true)
	prev := s.Iterations
	for i := 0; i < 200; i++ {
		var more bool
		s, more = s.Advance(p)
		g.Expect(more).To(BeTrue())
		g.Expect(s.Iterations).To(BeNumerically("<=", prev))
		g.Expect(s.Iterations).To(BeNumerically(">=", s.MinIterations))
		prev = s.Iterations
	}
	g.Expect(s.Iterations).To(Equal(int32(50)))
}

func TestAdvanceIdleBudgetConverges(t *testing.T) {
	for _, recovery := range []Recovery{RecoveryRamp, RecoverySnap} {
		t.Run(string(recovery), func(t *testing.T) {
			p := DefaultParams()
			p.Recovery = recovery

			s := NewState(50, 500)
			s.Iterations = 73

			prev := s.Iterations
			for i := 0; i < 100; i++ {
				var more bool
				s, more = s.Advance(p)
				if more != (prev != s.MaxIterations) {
					t.Fatalf("frame %d: more = %v with budget %d before the step", i, more, prev)
				}
				if s.Iterations < prev {
					t.Fatalf("frame %d: budget fell from %d to %d", i, prev, s.Iterations)
				}
				if s.Iterations > s.MaxIterations {
					t.Fatalf("frame %d: budget %d above max %d", i, s.Iterations, s.MaxIterations)
				}
				prev = s.Iterations
			}

			if s.Iterations != s.MaxIterations {
				t.Errorf("Iterations = %d, want %d", s.Iterations, s.MaxIterations)
			}
			if _, more := s.Advance(p); more {
				t.Error("more = true with the budget restored")
			}
		})
	}
}

func TestAdvanceSnapRestoresInOneFrame(t *testing.T) {
	p := DefaultParams()
	p.Recovery = RecoverySnap

	s := NewState(50, 500)
	s.Iterations = 50

	s, more := s.Advance(p)
	if !more {
		t.Error("more = false on the restoring frame")
	}
	if s.Iterations != 500 {
		t.Errorf("Iterations = %d, want 500", s.Iterations)
	}

	_, more = s.Advance(p)
	if more {
		t.Error("more = true once restored")
	}
}

func TestAdvanceSizeGeometric(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams()

	in := NewState(50, 500).Engage(p, 0.5, 0.5, true)
	out := NewState(50, 500).Engage(p, 0.5, 0.5, false)
	for i := 0; i < 50; i++ {
		nextIn, _ := in.Advance(p)
		nextOut, _ := out.Advance(p)

		g.Expect(nextIn.Size).To(BeNumerically("<", in.Size))
		g.Expect(nextOut.Size).To(BeNumerically(">", out.Size))
		g.Expect(nextIn.Size).To(BeNumerically("~", in.Size*0.99, 1e-12))

		in, out = nextIn, nextOut
	}
}

func TestAdvanceEasesTowardTarget(t *testing.T) {
	p := DefaultParams()
	s := NewState(50, 500).Engage(p, 1, 0, true)

	s, _ = s.Advance(p)
	if !approxEqual(s.Center[0], 0.2, 1e-12) || !approxEqual(s.Center[1], 0.2, 1e-12) {
		t.Fatalf("Center = %v, want (0.2, 0.2)", s.Center)
	}

	for i := 0; i < 500; i++ {
		s, _ = s.Advance(p)
	}
	if !s.Center.ApproxEqualThreshold(s.Target, 1e-9) {
		t.Errorf("Center = %v, want close to %v", s.Center, s.Target)
	}
}

func TestAdvanceMinSize(t *testing.T) {
	p := DefaultParams()
	p.MinSize = 3.9

	s := NewState(50, 500).Engage(p, 0.5, 0.5, true)
	for i := 0; i < 10; i++ {
		s, _ = s.Advance(p)
	}
	if s.Size != 3.9 {
		t.Errorf("Size = %v, want 3.9", s.Size)
	}
}

func TestAdvanceSizeStaysPositive(t *testing.T) {
	p := DefaultParams()
	p.ZoomIn = 1e-200

	s := NewState(50, 500).Engage(p, 0.5, 0.5, true)
	for i := 0; i < 5; i++ {
		s, _ = s.Advance(p)
		if s.Size <= 0 {
			t.Fatalf("frame %d: Size = %v", i, s.Size)
		}
	}
}

func TestReleaseThenAdvance(t *testing.T) {
	p := DefaultParams()

	s := NewState(50, 500).Engage(p, 0.5, 0.5, true)
	for i := 0; i < 10; i++ {
		s, _ = s.Advance(p)
	}
	s = s.Release()

	for {
		before := s.Iterations
		var more bool
		s, more = s.Advance(p)
		if more != (before != s.MaxIterations) {
			t.Fatalf("more = %v with budget %d before the step", more, before)
		}
		if !more {
			break
		}
	}
	if s.Iterations != s.MaxIterations {
		t.Errorf("Iterations = %d, want %d", s.Iterations, s.MaxIterations)
	}
}

func TestScale(t *testing.T) {
	p := DefaultParams()
	s := NewState(50, 500)

	if got := s.Scale(p, 0.5).Size; got != 2 {
		t.Errorf("Size = %v, want 2", got)
	}
	if got := s.Scale(p, 10).Size; got != p.MaxSize {
		t.Errorf("Size = %v, want %v", got, p.MaxSize)
	}
	if got := s.Scale(p, -1).Size; got != 4 {
		t.Errorf("Size = %v, want 4", got)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		valid  bool
	}{
		{"default", func(p *Params) {}, true},
		{"snap", func(p *Params) { p.Recovery = RecoverySnap }, true},
		{"zero step", func(p *Params) { p.Step = 0 }, false},
		{"zoom in above one", func(p *Params) { p.ZoomIn = 1.2 }, false},
		{"zoom out below one", func(p *Params) { p.ZoomOut = 0.5 }, false},
		{"zero blend", func(p *Params) { p.Blend = 0 }, false},
		{"unknown recovery", func(p *Params) { p.Recovery = "bounce" }, false},
		{"inverted sizes", func(p *Params) { p.MinSize = 10 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("err = %v, want ErrInvalidParams", err)
			}
		})
	}
}
