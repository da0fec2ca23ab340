package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera is a test implementation of the Camera interface. It serves
// synthetic frames without touching hardware.
type MockCamera struct {
	mu        sync.Mutex
	open      bool
	openErr   error
	frameFunc func() (*gocv.Mat, error)
	readCalls int
}

// NewMockCamera creates a MockCamera that serves blank frames at the default
// resolution.
func NewMockCamera() *MockCamera {
	return &MockCamera{}
}

// SetOpenError makes subsequent Open calls fail with err.
func (m *MockCamera) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetFrameFunc overrides the frame source used by ReadFrame.
func (m *MockCamera) SetFrameFunc(f func() (*gocv.Mat, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameFunc = f
}

// ReadCalls returns how many times ReadFrame has been invoked.
func (m *MockCamera) ReadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCalls
}

// Open marks the mock as open.
func (m *MockCamera) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return m.openErr
	}
	m.open = true
	return nil
}

// Close marks the mock as closed.
func (m *MockCamera) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// ReadFrame returns the configured frame, or a blank frame by default.
// The caller is responsible for closing the returned Mat.
func (m *MockCamera) ReadFrame() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCalls++
	if !m.open {
		return nil, ErrCameraNotOpen
	}
	if m.frameFunc != nil {
		return m.frameFunc()
	}

	mat := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	return &mat, nil
}

// IsOpen reports whether the mock is open.
func (m *MockCamera) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// ActiveLevel reports the first ladder level while open, -1 otherwise.
func (m *MockCamera) ActiveLevel() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return -1
	}
	return 0
}

// Settings returns the default capture configuration.
func (m *MockCamera) Settings() Settings {
	return DefaultSettings()
}
