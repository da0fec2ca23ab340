// Package plan defines EFT session plans and their JSON wire format.
package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seojin/tapguide/internal/eft"
)

// DefaultStepDuration is used when a step omits durationSec.
const DefaultStepDuration = 5

// Step is one timed instruction in a session: which point to tap, on which
// side, for how long, with an optional spoken tip. Steps are immutable once
// loaded.
type Step struct {
	Point       eft.TappingPoint `json:"point"`
	Side        eft.Side         `json:"side"`
	DurationSec int              `json:"durationSec"`
	Tip         string           `json:"tip,omitempty"`
}

// SessionPlan is an ordered sequence of steps, loaded once at session start
// and read-only thereafter.
type SessionPlan struct {
	Title    string `json:"title"`
	IntroTip string `json:"introTip,omitempty"`
	Steps    []Step `json:"steps"`
}

// TotalDuration returns the summed step durations in seconds.
func (p *SessionPlan) TotalDuration() int {
	total := 0
	for _, s := range p.Steps {
		total += s.DurationSec
	}
	return total
}

// Validate checks the plan for structural problems and fills in default step
// durations. It returns the first problem found.
func (p *SessionPlan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("plan has no title")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan %q has no steps", p.Title)
	}

	for i := range p.Steps {
		s := &p.Steps[i]
		if !s.Point.Valid() {
			return fmt.Errorf("step %d: unknown tapping point %q", i, s.Point)
		}
		if !s.Side.Valid() {
			return fmt.Errorf("step %d: unknown side %q", i, s.Side)
		}
		if s.DurationSec == 0 {
			s.DurationSec = DefaultStepDuration
		}
		if s.DurationSec < 0 {
			return fmt.Errorf("step %d: negative duration %d", i, s.DurationSec)
		}
	}

	return nil
}

// Parse decodes and validates a JSON session plan.
func Parse(data []byte) (*SessionPlan, error) {
	var p SessionPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads and parses a session plan from a JSON file.
func LoadFile(path string) (*SessionPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	return Parse(data)
}
