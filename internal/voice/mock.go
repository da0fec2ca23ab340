package voice

import (
	"context"
	"sync"
	"time"
)

// MockSpeaker implements Speaker for testing. Behaviour can be customized via
// the SpeakFunc field; by default it records the call and returns nil.
type MockSpeaker struct {
	// SpeakFunc is called when Speak is invoked. If nil, the call is only
	// recorded.
	SpeakFunc func(ctx context.Context, text string) error

	mu        sync.Mutex
	spoken    []string
	cancelled int
}

// NewMockSpeaker creates a recording mock speaker.
func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{}
}

// Speak records the utterance. When the context is cancelled before
// completion the cancellation is counted instead.
func (m *MockSpeaker) Speak(ctx context.Context, text string) error {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}

	select {
	case <-ctx.Done():
		m.mu.Lock()
		m.cancelled++
		m.mu.Unlock()
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MockSpeaker) Close() error {
	return nil
}

// Spoken returns a copy of all completed utterances.
func (m *MockSpeaker) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Cancelled returns how many utterances were cancelled before speaking.
func (m *MockSpeaker) Cancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// WaitFor blocks until at least n utterances completed or the timeout
// elapses, returning whether the count was reached. Helps tests cope with the
// service's asynchronous cue delivery.
func (m *MockSpeaker) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		count := len(m.spoken)
		m.mu.Unlock()
		if count >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
