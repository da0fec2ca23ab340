// Package voice provides spoken step cues via a platform text-to-speech
// backend. A new cue always cancels the one currently playing; cues are never
// queued.
package voice

import (
	"context"
	"strings"
	"sync"
	"time"
)

// CueDelay is how long a cue waits before speaking, so narration does not
// overlap the visual step transition.
const CueDelay = 500 * time.Millisecond

// Speaker converts one piece of text to audible speech. Implementations must
// stop speaking promptly when the context is cancelled.
type Speaker interface {
	// Speak plays text and blocks until playback finishes or ctx is
	// cancelled.
	Speak(ctx context.Context, text string) error

	// Close releases any resources held by the speaker.
	Close() error
}

// Service schedules step cues on a Speaker. It owns at most one in-flight
// utterance; issuing a new cue cancels the previous one, including one still
// waiting out its delay.
type Service struct {
	speaker Speaker
	delay   time.Duration
	enabled bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewService creates a cue service around the given speaker. A nil speaker
// disables cues entirely.
func NewService(speaker Speaker) *Service {
	return &Service{
		speaker: speaker,
		delay:   CueDelay,
		enabled: speaker != nil,
	}
}

// SetEnabled turns cue playback on or off. Disabling also stops the current
// utterance.
func (s *Service) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled && s.speaker != nil
	s.mu.Unlock()

	if !enabled {
		s.Stop()
	}
}

// Cue speaks text after the standard delay. It returns immediately; playback
// happens on a background goroutine. Empty text only cancels the current
// utterance.
func (s *Service) Cue(text string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	text = strings.TrimSpace(text)
	if !s.enabled || text == "" {
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	delay := s.delay
	s.mu.Unlock()

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// Errors here are not actionable; a missed cue must not affect
		// the session.
		_ = s.speaker.Speak(ctx, text)
	}()
}

// Stop cancels the current utterance, if any. Safe to call at any time.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close stops playback and releases the speaker.
func (s *Service) Close() error {
	s.Stop()
	if s.speaker == nil {
		return nil
	}
	return s.speaker.Close()
}
