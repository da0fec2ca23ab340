package overlay

import (
	"image"
	"math"
	"testing"
)

func TestMirrorX(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{1, 0},
		{0.5, 0.5},
		{0.25, 0.75},
	}
	for _, tt := range tests {
		if got := MirrorX(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MirrorX(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPulseRadius(t *testing.T) {
	base := BaseMarkerRadius

	// Phase 0 and 0.5 sit at the base radius; 0.25 is the peak, 0.75 the
	// trough.
	if got := PulseRadius(base, 0); got != base {
		t.Errorf("phase 0: got %d, want %d", got, base)
	}
	if got := PulseRadius(base, 0.5); got != base {
		t.Errorf("phase 0.5: got %d, want %d", got, base)
	}

	peak := PulseRadius(base, 0.25)
	wantPeak := int(math.Round(float64(base) * (1 + PulseAmplitude)))
	if peak != wantPeak {
		t.Errorf("phase 0.25: got %d, want %d", peak, wantPeak)
	}

	trough := PulseRadius(base, 0.75)
	wantTrough := int(math.Round(float64(base) * (1 - PulseAmplitude)))
	if trough != wantTrough {
		t.Errorf("phase 0.75: got %d, want %d", trough, wantTrough)
	}

	if trough >= base || base >= peak {
		t.Errorf("expected trough < base < peak, got %d, %d, %d", trough, base, peak)
	}
}

func TestPulseRadiusPeriodic(t *testing.T) {
	for _, phase := range []float64{0.1, 0.4, 0.9} {
		a := PulseRadius(BaseMarkerRadius, phase)
		b := PulseRadius(BaseMarkerRadius, phase+1)
		if a != b {
			t.Errorf("phase %v: radius not periodic, %d vs %d", phase, a, b)
		}
	}
}

func TestPlateRect(t *testing.T) {
	org := image.Pt(100, 50)
	size := image.Pt(60, 14)

	rect := PlateRect(org, size)

	// The plate wraps the text baseline box with padding on every side.
	if rect.Min.X >= org.X {
		t.Errorf("plate must start left of the text origin, got %d", rect.Min.X)
	}
	if rect.Max.X <= org.X+size.X {
		t.Errorf("plate must extend past the text width, got %d", rect.Max.X)
	}
	if rect.Min.Y >= org.Y-size.Y {
		t.Errorf("plate must start above the text top, got %d", rect.Min.Y)
	}
	if rect.Max.Y <= org.Y-1 {
		t.Errorf("plate must extend below the baseline, got %d", rect.Max.Y)
	}
	if rect.Dx() != size.X+platePadding || rect.Dy() != size.Y+platePadding {
		t.Errorf("plate size %dx%d, want %dx%d", rect.Dx(), rect.Dy(), size.X+platePadding, size.Y+platePadding)
	}
}
