package eft

import "sync"

// DefaultAlpha is the default EMA blend factor. Lower values smooth harder
// but lag the detector more.
const DefaultAlpha = 0.3

// Smoother damps frame-to-frame detector jitter with a per-key exponential
// moving average. Keys are typically Key(point, side) so each tapping point
// smooths against its own history only.
type Smoother struct {
	alpha float64
	prev  map[string]XY
	mu    sync.Mutex
}

// NewSmoother creates a Smoother with the given blend factor. Values outside
// (0, 1] fall back to DefaultAlpha.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Smoother{
		alpha: alpha,
		prev:  make(map[string]XY),
	}
}

// Smooth blends the current observation with the cached average for key.
// The first observation for a key is returned unchanged and becomes the
// baseline. A nil observation passes through as nil without disturbing the
// cached average, so a momentary detection miss does not reset smoothing.
func (s *Smoother) Smooth(key string, current *XY) *XY {
	if current == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, ok := s.prev[key]
	if !ok {
		s.prev[key] = *current
		out := *current
		return &out
	}

	smoothed := XY{
		X: s.alpha*current.X + (1-s.alpha)*previous.X,
		Y: s.alpha*current.Y + (1-s.alpha)*previous.Y,
	}
	s.prev[key] = smoothed

	out := smoothed
	return &out
}

// Reset clears all cached averages. Called on session restart, camera stop,
// and teardown.
func (s *Smoother) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = make(map[string]XY)
}
