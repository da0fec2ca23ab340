package capture

import (
	"fmt"
	"strings"
)

// Category classifies camera acquisition failures so callers can present
// actionable guidance instead of a raw driver error.
type Category string

const (
	CategoryNotFound   Category = "device-not-found"
	CategoryPermission Category = "permission-denied"
	CategoryBusy       Category = "device-busy"
	CategoryConstraint Category = "constraint-unsatisfiable"
	CategoryNoBackend  Category = "no-video-backend"
	CategoryAborted    Category = "aborted"
	CategoryUnknown    Category = "unknown"
)

// CameraError is the structured acquisition failure returned by Open once the
// fallback ladder is exhausted. CanRetry reports whether retrying with the
// same configuration could plausibly succeed (a busy device can free up; a
// missing video backend cannot appear).
type CameraError struct {
	Category  Category
	Message   string
	Solutions []string
	CanRetry  bool
	Attempts  int
	Err       error
}

func (e *CameraError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("camera: %s (%s, %d of %d fallback levels tried)",
			e.Message, e.Category, e.Attempts, NumFallbackLevels)
	}
	return fmt.Sprintf("camera: %s (%s)", e.Message, e.Category)
}

func (e *CameraError) Unwrap() error {
	return e.Err
}

// Classify wraps a raw acquisition error with a category, user-facing
// guidance, and a retry hint. attempts is how many fallback levels were tried
// before giving up.
func Classify(err error, attempts int) *CameraError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	lower := strings.ToLower(msg)

	switch {
	case contains(lower, "permission", "denied", "not authorized"):
		return &CameraError{
			Category: CategoryPermission,
			Message:  "camera access was denied",
			Solutions: []string{
				"Grant camera permission to this application in your system settings",
				"Restart the application after changing permissions",
			},
			CanRetry: true,
			Attempts: attempts,
			Err:      err,
		}
	case contains(lower, "busy", "in use", "already opened", "resource temporarily unavailable"):
		return &CameraError{
			Category: CategoryBusy,
			Message:  "the camera is in use by another application",
			Solutions: []string{
				"Close other applications that may be using the camera",
				"Try again once the camera is free",
			},
			CanRetry: true,
			Attempts: attempts,
			Err:      err,
		}
	case contains(lower, "not found", "no such", "out of range", "cannot open", "index"):
		return &CameraError{
			Category: CategoryNotFound,
			Message:  "no camera device was found",
			Solutions: []string{
				"Connect a camera and try again",
				"Check that the camera is recognized by the operating system",
			},
			CanRetry: true,
			Attempts: attempts,
			Err:      err,
		}
	case contains(lower, "backend", "not implemented", "no capture"):
		return &CameraError{
			Category: CategoryNoBackend,
			Message:  "video capture is not available on this system",
			Solutions: []string{
				"Install the required video capture libraries for your platform",
			},
			CanRetry: false,
			Attempts: attempts,
			Err:      err,
		}
	case contains(lower, "abort", "cancel"):
		return &CameraError{
			Category:  CategoryAborted,
			Message:   "camera acquisition was interrupted",
			Solutions: []string{"Try starting the camera again"},
			CanRetry:  true,
			Attempts:  attempts,
			Err:       err,
		}
	case attempts >= NumFallbackLevels:
		return &CameraError{
			Category: CategoryConstraint,
			Message:  "the camera could not satisfy any supported configuration",
			Solutions: []string{
				"Try a different camera device",
				"Update the camera driver",
			},
			CanRetry: true,
			Attempts: attempts,
			Err:      err,
		}
	default:
		return &CameraError{
			Category:  CategoryUnknown,
			Message:   "the camera failed to start",
			Solutions: []string{"Try starting the camera again"},
			CanRetry:  true,
			Attempts:  attempts,
			Err:       err,
		}
	}
}

func contains(s string, subs ...string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
