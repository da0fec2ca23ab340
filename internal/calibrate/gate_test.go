package calibrate

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/seojin/tapguide/internal/detector"
)

const goodLuma = 128.0

func TestGate_ChecksIndependently(t *testing.T) {
	g := NewGate(DefaultConfig(), nil)
	now := time.Now()

	tests := []struct {
		name string
		pose *detector.Pose
		luma float64
		want Checks
	}{
		{"well framed", detector.FrontFacingPose(), goodLuma, Checks{true, true, true}},
		{"no subject", nil, goodLuma, Checks{false, false, true}},
		{"too far", detector.DistantPose(), goodLuma, Checks{false, true, true}},
		{"off center", detector.OffCenterPose(), goodLuma, Checks{true, false, true}},
		{"too dark", detector.FrontFacingPose(), 20, Checks{true, true, false}},
		{"too bright", detector.FrontFacingPose(), 250, Checks{true, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Reset()
			status := g.Evaluate(tt.pose, tt.luma, now)
			if status.Checks != tt.want {
				t.Errorf("got %+v, want %+v", status.Checks, tt.want)
			}
		})
	}
}

func TestGate_CountdownAndFire(t *testing.T) {
	var fired int32
	g := NewGate(DefaultConfig(), func() { atomic.AddInt32(&fired, 1) })

	pose := detector.FrontFacingPose()
	start := time.Now()

	status := g.Evaluate(pose, goodLuma, start)
	if status.Ready {
		t.Fatal("gate must not be ready immediately")
	}
	if status.CountdownSec != 3 {
		t.Errorf("expected countdown to start at 3, got %d", status.CountdownSec)
	}

	status = g.Evaluate(pose, goodLuma, start.Add(1500*time.Millisecond))
	if status.CountdownSec != 2 {
		t.Errorf("expected countdown 2 at 1.5s, got %d", status.CountdownSec)
	}

	status = g.Evaluate(pose, goodLuma, start.Add(3*time.Second))
	if !status.Ready {
		t.Fatal("expected ready after the hold elapsed")
	}

	// The callback fires exactly once even when evaluation continues.
	g.Evaluate(pose, goodLuma, start.Add(4*time.Second))
	g.Evaluate(pose, goodLuma, start.Add(5*time.Second))

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&fired) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("expected exactly one ready callback, got %d", got)
	}
}

func TestGate_DropRestartsCountdown(t *testing.T) {
	g := NewGate(DefaultConfig(), nil)

	pose := detector.FrontFacingPose()
	start := time.Now()

	g.Evaluate(pose, goodLuma, start)
	g.Evaluate(pose, goodLuma, start.Add(2*time.Second))

	// Lighting drops mid-countdown.
	status := g.Evaluate(pose, 10, start.Add(2500*time.Millisecond))
	if status.CountdownSec != 0 || status.Ready {
		t.Fatalf("expected cancelled countdown, got %+v", status)
	}

	// Conditions return: the countdown must restart from full, so 0.5s
	// after re-satisfying we are still far from ready.
	g.Evaluate(pose, goodLuma, start.Add(3*time.Second))
	status = g.Evaluate(pose, goodLuma, start.Add(3500*time.Millisecond))
	if status.Ready {
		t.Error("countdown must restart from full after a drop")
	}
	if status.CountdownSec != 3 {
		t.Errorf("expected a fresh 3s countdown, got %d", status.CountdownSec)
	}
}

func TestGate_Reset(t *testing.T) {
	g := NewGate(DefaultConfig(), nil)
	pose := detector.FrontFacingPose()
	start := time.Now()

	g.Evaluate(pose, goodLuma, start)
	g.Evaluate(pose, goodLuma, start.Add(3*time.Second))
	if !g.Ready() {
		t.Fatal("expected ready")
	}

	g.Reset()
	if g.Ready() {
		t.Error("reset must clear the ready state")
	}
	status := g.Evaluate(pose, goodLuma, start.Add(4*time.Second))
	if status.Ready {
		t.Error("a fresh countdown must run after reset")
	}
}
