package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	pose        *Pose
	err         error
	initErr     error
	initialized bool
	detectCalls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect.
func (m *MockDetector) SetPose(pose *Pose) {
	m.pose = pose
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// SetInitError sets the error that will be returned by Init.
func (m *MockDetector) SetInitError(err error) {
	m.initErr = err
}

// DetectCalls returns how many times Detect has been invoked.
func (m *MockDetector) DetectCalls() int {
	return m.detectCalls
}

// Init marks the mock as initialized.
func (m *MockDetector) Init() error {
	if m.initErr != nil {
		return m.initErr
	}
	m.initialized = true
	return nil
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat, timestampMs int64) (*Pose, error) {
	m.detectCalls++
	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	m.initialized = false
	return nil
}

// FrontFacingPose returns a preset Pose representing a subject facing the
// camera with head and shoulders well inside the frame. Coordinates follow
// the normalized image convention (y grows downward).
func FrontFacingPose() *Pose {
	points := make([]Point, NumLandmarks)

	points[Nose] = Point{X: 0.50, Y: 0.30, Visibility: 0.98}
	points[LeftEye] = Point{X: 0.46, Y: 0.27, Visibility: 0.97}
	points[RightEye] = Point{X: 0.54, Y: 0.27, Visibility: 0.97}
	points[LeftEar] = Point{X: 0.42, Y: 0.29, Visibility: 0.90}
	points[RightEar] = Point{X: 0.58, Y: 0.29, Visibility: 0.90}
	points[LeftMouth] = Point{X: 0.47, Y: 0.34, Visibility: 0.95}
	points[RightMouth] = Point{X: 0.53, Y: 0.34, Visibility: 0.95}
	points[LeftShoulder] = Point{X: 0.35, Y: 0.50, Visibility: 0.99}
	points[RightShoulder] = Point{X: 0.65, Y: 0.50, Visibility: 0.99}
	points[LeftHip] = Point{X: 0.40, Y: 0.85, Visibility: 0.80}
	points[RightHip] = Point{X: 0.60, Y: 0.85, Visibility: 0.80}

	return &Pose{Points: points, Score: 0.95}
}

// OffCenterPose returns a preset Pose with the subject shifted to the left
// edge of the frame, useful for testing alignment checks.
func OffCenterPose() *Pose {
	pose := FrontFacingPose()
	for i := range pose.Points {
		pose.Points[i].X -= 0.45
	}
	return pose
}

// DistantPose returns a preset Pose with the subject far from the camera
// (small inter-shoulder width), useful for testing distance checks.
func DistantPose() *Pose {
	pose := FrontFacingPose()
	for i := range pose.Points {
		pose.Points[i].X = 0.5 + (pose.Points[i].X-0.5)*0.3
		pose.Points[i].Y = 0.4 + (pose.Points[i].Y-0.4)*0.3
	}
	return pose
}
