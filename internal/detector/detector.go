package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrNotInitialized is returned when Detect is called before Init succeeds.
var ErrNotInitialized = errors.New("detector is not initialized")

// Detector defines the interface for pose landmark detection implementations.
type Detector interface {
	// Init prepares the underlying model. It must be called once before
	// Detect; calling Detect earlier returns ErrNotInitialized.
	Init() error

	// Detect analyzes a video frame captured at timestampMs and returns the
	// detected pose, or nil when no subject is in frame.
	Detect(frame *gocv.Mat, timestampMs int64) (*Pose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MaxPoses is the maximum number of subjects to detect (default: 1).
	MaxPoses int

	// MinConfidence is the minimum pose presence confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// WithFaceMesh requests the dense face mesh as a best-effort secondary
	// output. Frames where the mesh is unavailable still return a body pose.
	WithFaceMesh bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxPoses:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		WithFaceMesh:    false,
	}
}
