// Package calibrate implements the pre-session framing gate: the subject must
// be at a workable distance, centered, and adequately lit before the timed
// session may begin.
package calibrate

import (
	"sync"
	"time"

	"github.com/seojin/tapguide/internal/detector"
)

// Default thresholds. Distance bounds are on the normalized inter-shoulder
// width; luma bounds are on the 0-255 mean frame brightness.
const (
	DefaultMinShoulderWidth = 0.18
	DefaultMaxShoulderWidth = 0.55
	DefaultFrameInset       = 0.10
	DefaultMinLuma          = 60.0
	DefaultMaxLuma          = 220.0
	DefaultHold             = 3 * time.Second
)

// Checks holds the three independent framing conditions.
type Checks struct {
	Distance  bool `json:"distance"`
	Alignment bool `json:"alignment"`
	Lighting  bool `json:"lighting"`
}

// All reports whether every condition holds.
func (c Checks) All() bool {
	return c.Distance && c.Alignment && c.Lighting
}

// Status is the gate's externally visible state after an evaluation.
type Status struct {
	Checks Checks `json:"checks"`
	// CountdownSec is the remaining whole seconds of the hold countdown,
	// 0 when no countdown is running.
	CountdownSec int `json:"countdownSec"`
	// Ready becomes true once the countdown completed; it never reverts.
	Ready bool `json:"ready"`
}

// Config tunes the gate's thresholds.
type Config struct {
	MinShoulderWidth float64
	MaxShoulderWidth float64
	FrameInset       float64
	MinLuma          float64
	MaxLuma          float64
	Hold             time.Duration
}

// DefaultConfig returns the standard gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinShoulderWidth: DefaultMinShoulderWidth,
		MaxShoulderWidth: DefaultMaxShoulderWidth,
		FrameInset:       DefaultFrameInset,
		MinLuma:          DefaultMinLuma,
		MaxLuma:          DefaultMaxLuma,
		Hold:             DefaultHold,
	}
}

// Gate tracks framing conditions over time. Once all conditions hold
// continuously for the hold duration, the ready callback fires exactly once;
// any condition dropping during the countdown cancels it, and the countdown
// restarts from full when conditions are re-satisfied.
type Gate struct {
	config  Config
	onReady func()

	mu        sync.Mutex
	holdStart time.Time
	fired     bool
}

// NewGate creates a Gate. onReady may be nil.
func NewGate(config Config, onReady func()) *Gate {
	if config.Hold <= 0 {
		config.Hold = DefaultHold
	}
	return &Gate{
		config:  config,
		onReady: onReady,
	}
}

// Evaluate folds one frame's observations into the gate. meanLuma is the mean
// brightness of the frame in [0,255]; pose may be nil when detection found no
// subject (which fails distance and alignment).
func (g *Gate) Evaluate(pose *detector.Pose, meanLuma float64, now time.Time) Status {
	checks := Checks{
		Distance:  g.checkDistance(pose),
		Alignment: g.checkAlignment(pose),
		Lighting:  meanLuma >= g.config.MinLuma && meanLuma <= g.config.MaxLuma,
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fired {
		return Status{Checks: checks, Ready: true}
	}

	if !checks.All() {
		// Condition dropped: the countdown restarts from full next time.
		g.holdStart = time.Time{}
		return Status{Checks: checks}
	}

	if g.holdStart.IsZero() {
		g.holdStart = now
	}

	remaining := g.config.Hold - now.Sub(g.holdStart)
	if remaining > 0 {
		// Round up so the countdown shows 3, 2, 1 rather than 2, 1, 0.
		secs := int((remaining + time.Second - 1) / time.Second)
		return Status{Checks: checks, CountdownSec: secs}
	}

	g.fired = true
	if g.onReady != nil {
		// Fire outside the lock; the callback may re-enter gate reads.
		callback := g.onReady
		go callback()
	}

	return Status{Checks: checks, Ready: true}
}

// Ready reports whether the gate has completed.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}

// Reset returns the gate to its initial state, allowing a new session to run
// the framing check again.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.holdStart = time.Time{}
	g.fired = false
}

// checkDistance accepts subjects whose inter-shoulder width indicates a
// workable distance from the camera.
func (g *Gate) checkDistance(pose *detector.Pose) bool {
	left, leftOK := pose.Landmark(detector.LeftShoulder)
	right, rightOK := pose.Landmark(detector.RightShoulder)
	if !leftOK || !rightOK {
		return false
	}

	width := detector.Distance(left, right)
	return width >= g.config.MinShoulderWidth && width <= g.config.MaxShoulderWidth
}

// checkAlignment accepts subjects whose shoulder midpoint sits inside the
// safe-frame inset.
func (g *Gate) checkAlignment(pose *detector.Pose) bool {
	left, leftOK := pose.Landmark(detector.LeftShoulder)
	right, rightOK := pose.Landmark(detector.RightShoulder)
	if !leftOK || !rightOK {
		return false
	}

	mid := detector.Lerp(left, right, 0.5)
	inset := g.config.FrameInset
	return mid.X >= inset && mid.X <= 1-inset && mid.Y >= inset && mid.Y <= 1-inset
}
