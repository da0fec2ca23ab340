package eft

import (
	"math"
	"testing"
)

func dist(a, b *XY) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestSmoother_FirstSampleIdentity(t *testing.T) {
	s := NewSmoother(0.3)

	in := &XY{X: 0.4, Y: 0.6}
	out := s.Smooth("brow_center", in)

	if out == nil {
		t.Fatal("expected non-nil output")
	}
	if out.X != in.X || out.Y != in.Y {
		t.Errorf("first sample should pass through unchanged, got (%f, %f)", out.X, out.Y)
	}
}

func TestSmoother_ConvergesMonotonically(t *testing.T) {
	s := NewSmoother(0.3)
	target := &XY{X: 0.8, Y: 0.2}

	// Establish a baseline away from the target.
	s.Smooth("k", &XY{X: 0.1, Y: 0.9})

	prevDist := math.Inf(1)
	for i := 0; i < 20; i++ {
		out := s.Smooth("k", target)
		d := dist(out, target)
		if d > prevDist {
			t.Fatalf("iteration %d: distance %f exceeds previous %f", i, d, prevDist)
		}
		prevDist = d
	}

	if prevDist > 0.01 {
		t.Errorf("expected convergence near target after 20 samples, still %f away", prevDist)
	}
}

func TestSmoother_NilPassthrough(t *testing.T) {
	s := NewSmoother(0.5)

	s.Smooth("k", &XY{X: 0.2, Y: 0.2})

	if out := s.Smooth("k", nil); out != nil {
		t.Errorf("expected nil passthrough, got %+v", out)
	}

	// The cached average must survive the miss: the next real sample blends
	// with the pre-nil value rather than starting from scratch.
	out := s.Smooth("k", &XY{X: 0.6, Y: 0.6})
	want := 0.5*0.6 + 0.5*0.2
	if math.Abs(out.X-want) > 1e-9 || math.Abs(out.Y-want) > 1e-9 {
		t.Errorf("expected blend with cached value (%f), got (%f, %f)", want, out.X, out.Y)
	}
}

func TestSmoother_KeysIsolated(t *testing.T) {
	s := NewSmoother(0.5)

	s.Smooth("a", &XY{X: 0.0, Y: 0.0})
	s.Smooth("b", &XY{X: 1.0, Y: 1.0})

	out := s.Smooth("a", &XY{X: 0.4, Y: 0.4})
	if math.Abs(out.X-0.2) > 1e-9 {
		t.Errorf("key a should blend against its own history, got %f", out.X)
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(0.3)

	s.Smooth("k", &XY{X: 0.1, Y: 0.1})
	s.Reset()

	in := &XY{X: 0.9, Y: 0.9}
	out := s.Smooth("k", in)
	if out.X != in.X || out.Y != in.Y {
		t.Errorf("after reset the first sample should pass through, got (%f, %f)", out.X, out.Y)
	}
}

func TestNewSmoother_AlphaFallback(t *testing.T) {
	for _, alpha := range []float64{0, -0.5, 1.5} {
		s := NewSmoother(alpha)
		if s.alpha != DefaultAlpha {
			t.Errorf("alpha %f should fall back to default, got %f", alpha, s.alpha)
		}
	}
}
