// Package detector provides body pose landmark detection interfaces and types
// for the tapping-point guidance pipeline.
package detector

import "math"

// Pose landmark indices following the BlazePose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
//
// The anatomical point mapper depends on these exact indices; they must match
// whichever pose model the detector service actually runs.
const (
	Nose          = 0
	LeftEye       = 2
	RightEye      = 5
	LeftEar       = 7
	RightEar      = 8
	LeftMouth     = 9
	RightMouth    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	LeftHip       = 23
	RightHip      = 24
	NumLandmarks  = 33
)

// NumFaceMeshLandmarks is the point count of the optional dense face mesh feed.
const NumFaceMeshLandmarks = 468

// Point represents a normalized 2D landmark. X and Y are in [0,1] relative to
// the frame width and height. Visibility is the model's confidence that the
// landmark is visible; 0 means the model reported none.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Pose represents one detected subject: the body landmark set and, when the
// auxiliary face feed delivered a result for the same frame, a dense face mesh.
// A Pose is valid only for the frame it was produced from.
type Pose struct {
	Points []Point `json:"points"`
	// Face holds 468 dense face mesh points when available, nil otherwise.
	Face []Point `json:"face,omitempty"`
	// Score is the model's pose presence confidence.
	Score float64 `json:"score"`
}

// Landmark returns the landmark at index i and whether it exists in this set.
func (p *Pose) Landmark(i int) (Point, bool) {
	if p == nil || i < 0 || i >= len(p.Points) {
		return Point{}, false
	}
	return p.Points[i], true
}

// Distance calculates the Euclidean distance between two landmarks.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}

// Lerp interpolates between two landmarks at ratio t, where t=0 returns a and
// t=1 returns b. Visibility is the lower of the two inputs.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X:          a.X + (b.X-a.X)*t,
		Y:          a.Y + (b.Y-a.Y)*t,
		Visibility: math.Min(a.Visibility, b.Visibility),
	}
}
