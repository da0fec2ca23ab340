package player

import (
	"testing"
	"time"

	"github.com/seojin/tapguide/internal/eft"
	"github.com/seojin/tapguide/internal/plan"
	"github.com/seojin/tapguide/internal/voice"
)

func testPlan() *plan.SessionPlan {
	p := &plan.SessionPlan{
		Title: "Test Round",
		Steps: []plan.Step{
			{Point: eft.Brow, Side: eft.SideCenter, DurationSec: 5, Tip: "first tip"},
			{Point: eft.Chin, Side: eft.SideCenter, DurationSec: 3, Tip: "second tip"},
			{Point: eft.Clavicle, Side: eft.SideCenter, DurationSec: 4},
		},
	}
	if err := p.Validate(); err != nil {
		panic(err)
	}
	return p
}

func tick(p *Player, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

func TestPlayer_TimerAdvancesSteps(t *testing.T) {
	p := New(testPlan(), true, nil)

	snap := p.Snapshot()
	if snap.StepIndex != 0 || snap.TimeLeft != 5 {
		t.Fatalf("unexpected initial state: %+v", snap)
	}

	tick(p, 5)

	snap = p.Snapshot()
	if snap.StepIndex != 1 {
		t.Errorf("expected step 1 after 5 ticks, got %d", snap.StepIndex)
	}
	if snap.TimeLeft != 3 {
		t.Errorf("expected timer reset to next step's duration 3, got %d", snap.TimeLeft)
	}
	if snap.CountingDown {
		t.Error("countdown flag must clear on step entry")
	}
}

func TestPlayer_CountdownLatches(t *testing.T) {
	p := New(testPlan(), true, nil)

	tick(p, 1)
	if p.Snapshot().CountingDown {
		t.Error("countdown must not start at 4 seconds remaining")
	}

	tick(p, 1)
	snap := p.Snapshot()
	if snap.TimeLeft != 3 || !snap.CountingDown {
		t.Errorf("expected countdown at 3 seconds remaining, got %+v", snap)
	}
}

func TestPlayer_Completion(t *testing.T) {
	p := New(testPlan(), true, nil)

	tick(p, 5+3+4)

	snap := p.Snapshot()
	if snap.State != StateCompleted {
		t.Errorf("expected completed state, got %s", snap.State)
	}
	if snap.Playing {
		t.Error("completed session must not be playing")
	}
	if snap.TimeLeft != 0 {
		t.Errorf("expected timeLeft 0, got %d", snap.TimeLeft)
	}
	if !snap.Complete {
		t.Error("expected isComplete")
	}

	// Further ticks are no-ops.
	tick(p, 3)
	if got := p.Snapshot().StepIndex; got != 2 {
		t.Errorf("step index must stay at last step, got %d", got)
	}
}

func TestPlayer_BoundaryClamps(t *testing.T) {
	p := New(testPlan(), false, nil)

	p.PrevStep()
	if got := p.Snapshot().StepIndex; got != 0 {
		t.Errorf("PrevStep at index 0 must be a no-op, got %d", got)
	}

	p.GoToStep(2)
	p.NextStep()
	if got := p.Snapshot().StepIndex; got != 2 {
		t.Errorf("NextStep at the last index must be a no-op, got %d", got)
	}
}

func TestPlayer_NavigationResetsTimer(t *testing.T) {
	p := New(testPlan(), true, nil)

	tick(p, 3) // step 0, 2s left
	p.NextStep()

	snap := p.Snapshot()
	if snap.StepIndex != 1 || snap.TimeLeft != 3 {
		t.Errorf("expected step 1 with full 3s, got %+v", snap)
	}
	if snap.CountingDown {
		t.Error("manual navigation must clear the countdown flag")
	}

	p.PrevStep()
	snap = p.Snapshot()
	if snap.StepIndex != 0 || snap.TimeLeft != 5 {
		t.Errorf("expected step 0 with full 5s, got %+v", snap)
	}
}

func TestPlayer_TogglePreservesTimer(t *testing.T) {
	p := New(testPlan(), true, nil)

	tick(p, 2)
	p.TogglePlay()

	snap := p.Snapshot()
	if snap.Playing {
		t.Error("expected paused")
	}
	if snap.State != StateIdle && snap.State != StatePaused {
		t.Errorf("unexpected state %s", snap.State)
	}
	if snap.TimeLeft != 3 {
		t.Errorf("pause must not reset the timer, got %d", snap.TimeLeft)
	}

	// Ticks while paused do nothing.
	tick(p, 4)
	if got := p.Snapshot().TimeLeft; got != 3 {
		t.Errorf("paused timer must not move, got %d", got)
	}

	p.TogglePlay()
	tick(p, 1)
	if got := p.Snapshot().TimeLeft; got != 2 {
		t.Errorf("resume must continue from where it paused, got %d", got)
	}
}

func TestPlayer_ResetRestoresAutoplay(t *testing.T) {
	p := New(testPlan(), true, nil)

	tick(p, 6)
	p.TogglePlay()
	p.Reset()

	snap := p.Snapshot()
	if snap.StepIndex != 0 || snap.TimeLeft != 5 {
		t.Errorf("expected a fresh first step, got %+v", snap)
	}
	if !snap.Playing {
		t.Error("reset must restore the original autoPlay value")
	}
}

func TestPlayer_Progress(t *testing.T) {
	p := New(testPlan(), true, nil)

	if got := p.Snapshot().Progress; got != 1.0/3.0 {
		t.Errorf("expected progress 1/3, got %f", got)
	}

	p.GoToStep(2)
	if got := p.Snapshot().Progress; got != 1.0 {
		t.Errorf("expected progress 1.0 on last step, got %f", got)
	}
}

func TestPlayer_SpeaksTipsOnTransitions(t *testing.T) {
	mock := voice.NewMockSpeaker()
	cues := voice.NewService(mock)
	p := New(testPlan(), true, cues)
	defer p.Stop()

	p.Start()
	if !mock.WaitFor(1, 2*time.Second) {
		t.Fatal("first tip was never spoken")
	}
	p.Stop()

	tick(p, 5) // advance into step 1
	if !mock.WaitFor(2, 2*time.Second) {
		t.Fatal("second tip was never spoken")
	}

	spoken := mock.Spoken()
	if spoken[0] != "first tip" || spoken[1] != "second tip" {
		t.Errorf("unexpected cue order: %v", spoken)
	}
}

func TestPlayer_StartStopIdempotent(t *testing.T) {
	p := New(testPlan(), false, nil)

	p.Start()
	p.Start()
	p.Stop()
	p.Stop()
}
