package session

import "time"

// Backoff delays for recovering from camera read failures.
const (
	backoffInitial = 300 * time.Millisecond
	backoffMax     = 4 * time.Second
)

// Backoff produces exponentially growing delays, doubling from the initial
// delay up to a cap. Not safe for concurrent use; the capture loop owns it.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	next    time.Duration
}

// NewBackoff creates a Backoff with the standard camera recovery delays.
func NewBackoff() *Backoff {
	return &Backoff{
		initial: backoffInitial,
		max:     backoffMax,
		next:    backoffInitial,
	}
}

// Next returns the current delay and doubles the next one, up to the cap.
func (b *Backoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// Reset returns the backoff to its initial delay after a success.
func (b *Backoff) Reset() {
	b.next = b.initial
}
