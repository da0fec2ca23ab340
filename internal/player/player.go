// Package player drives the timed progression through an EFT session plan.
package player

import (
	"sync"
	"time"

	"github.com/seojin/tapguide/internal/plan"
	"github.com/seojin/tapguide/internal/voice"
)

// State names the player's position in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// countdownWindow is the remaining-seconds range that latches the countdown
// flag for the step's final moments.
const countdownWindow = 3

// Snapshot is a read-only copy of the player's state, safe to hand to UI and
// transport layers.
type Snapshot struct {
	State        State     `json:"state"`
	Step         plan.Step `json:"step"`
	StepIndex    int       `json:"stepIndex"`
	TotalSteps   int       `json:"totalSteps"`
	TimeLeft     int       `json:"timeLeftSec"`
	Playing      bool      `json:"isPlaying"`
	CountingDown bool      `json:"isCountingDown"`
	Progress     float64   `json:"progress"`
	Complete     bool      `json:"isComplete"`
}

// Player walks an ordered list of session steps with a once-per-second timer,
// speaking each step's tip as it begins. The internal timer goroutine is the
// single writer of player state; everything external reads snapshots.
type Player struct {
	plan     *plan.SessionPlan
	autoPlay bool
	cues     *voice.Service

	mu           sync.Mutex
	stepIndex    int
	timeLeft     int
	playing      bool
	countingDown bool
	completed    bool
	started      bool
	stopCh       chan struct{}
}

// New creates a Player for the given plan. The plan must have been validated
// and contain at least one step. cues may be nil to disable narration.
func New(p *plan.SessionPlan, autoPlay bool, cues *voice.Service) *Player {
	if cues == nil {
		cues = voice.NewService(nil)
	}
	return &Player{
		plan:     p,
		autoPlay: autoPlay,
		cues:     cues,
		timeLeft: p.Steps[0].DurationSec,
		playing:  autoPlay,
	}
}

// Start launches the one-second tick loop and speaks the first step's tip.
// Calling Start on a running player is a no-op.
func (p *Player) Start() {
	p.mu.Lock()
	if p.stopCh != nil {
		p.mu.Unlock()
		return
	}
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.started = true
	tip := p.plan.Steps[p.stepIndex].Tip
	p.mu.Unlock()

	p.cues.Cue(tip)

	go p.run(stopCh)
}

// Stop halts the tick loop and cancels any speech. The player keeps its
// position; Start resumes ticking.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.stopCh != nil {
		close(p.stopCh)
		p.stopCh = nil
	}
	p.mu.Unlock()

	p.cues.Stop()
}

// run is the timer loop. Ticks are strictly sequential: the next tick is not
// scheduled until a full interval after the previous one.
func (p *Player) run(stopCh chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick advances the timer by one second. Exposed so tests and embedders can
// drive the player deterministically; the internal loop calls it at 1 Hz.
func (p *Player) Tick() {
	p.mu.Lock()

	if !p.playing || p.completed {
		p.mu.Unlock()
		return
	}

	p.timeLeft--

	if p.timeLeft > 0 {
		if p.timeLeft <= countdownWindow && !p.countingDown {
			p.countingDown = true
		}
		p.mu.Unlock()
		return
	}

	// Step finished: advance or complete.
	next := p.stepIndex + 1
	if next < len(p.plan.Steps) {
		p.stepIndex = next
		p.timeLeft = p.plan.Steps[next].DurationSec
		p.countingDown = false
		tip := p.plan.Steps[next].Tip
		p.mu.Unlock()

		p.cues.Cue(tip)
		return
	}

	p.playing = false
	p.timeLeft = 0
	p.completed = true
	p.mu.Unlock()
}

// NextStep advances to the following step. A no-op on the last step.
func (p *Player) NextStep() {
	p.mu.Lock()
	idx := p.stepIndex + 1
	if idx >= len(p.plan.Steps) {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.GoToStep(idx)
}

// PrevStep returns to the previous step. A no-op on the first step.
func (p *Player) PrevStep() {
	p.mu.Lock()
	idx := p.stepIndex - 1
	if idx < 0 {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.GoToStep(idx)
}

// GoToStep jumps directly to a step, resetting its timer and bypassing the
// natural countdown. In-flight speech is cancelled before the new tip plays.
// Out-of-range indexes are ignored.
func (p *Player) GoToStep(index int) {
	p.mu.Lock()
	if index < 0 || index >= len(p.plan.Steps) {
		p.mu.Unlock()
		return
	}

	p.stepIndex = index
	p.timeLeft = p.plan.Steps[index].DurationSec
	p.countingDown = false
	p.completed = false
	tip := p.plan.Steps[index].Tip
	p.mu.Unlock()

	p.cues.Cue(tip)
}

// TogglePlay pauses or resumes without resetting the current step's timer.
// A completed session cannot be resumed by toggling; use Reset.
func (p *Player) TogglePlay() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed {
		return
	}
	p.playing = !p.playing
}

// Reset cancels speech, returns to the first step and restores the original
// autoplay behaviour.
func (p *Player) Reset() {
	p.cues.Stop()

	p.mu.Lock()
	p.stepIndex = 0
	p.timeLeft = p.plan.Steps[0].DurationSec
	p.countingDown = false
	p.completed = false
	p.playing = p.autoPlay
	tip := p.plan.Steps[0].Tip
	started := p.started
	p.mu.Unlock()

	if started {
		p.cues.Cue(tip)
	}
}

// Snapshot returns a copy of the current player state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := len(p.plan.Steps)
	last := p.stepIndex == total-1

	state := StateIdle
	switch {
	case p.completed:
		state = StateCompleted
	case p.playing:
		state = StatePlaying
	case p.started:
		state = StatePaused
	}

	return Snapshot{
		State:        state,
		Step:         p.plan.Steps[p.stepIndex],
		StepIndex:    p.stepIndex,
		TotalSteps:   total,
		TimeLeft:     p.timeLeft,
		Playing:      p.playing,
		CountingDown: p.countingDown,
		Progress:     float64(p.stepIndex+1) / float64(total),
		Complete:     last && p.timeLeft <= 0,
	}
}
