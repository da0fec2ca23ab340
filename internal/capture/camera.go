// Package capture provides camera acquisition using GoCV (OpenCV), with a
// graduated fallback ladder that trades resolution for the best chance of
// getting a working stream.
package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Default camera settings.
const (
	DefaultFPS    = 15
	DefaultWidth  = 640
	DefaultHeight = 480

	// NumFallbackLevels is the length of the acquisition ladder.
	NumFallbackLevels = 4

	warmupRetryDelay = 250 * time.Millisecond
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Settings is the requested capture configuration for the first ladder level.
type Settings struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
}

// DefaultSettings returns the standard capture configuration.
func DefaultSettings() Settings {
	return Settings{
		DeviceID: 0,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
	}
}

// Level is one rung of the fallback ladder. Width and Height of 0 leave the
// device at whatever the driver picks.
type Level struct {
	Name   string
	Width  int
	Height int
}

// Ladder returns the graduated acquisition attempts for the given settings,
// from the exact request down to a fully permissive open.
func Ladder(s Settings) []Level {
	return []Level{
		{Name: "requested", Width: s.Width, Height: s.Height},
		{Name: "reduced", Width: 480, Height: 320},
		{Name: "minimal", Width: 320, Height: 240},
		{Name: "permissive"},
	}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
	ActiveLevel() int
	Settings() Settings
}

// videoSource abstracts the underlying capture device so the ladder logic can
// be tested without hardware.
type videoSource interface {
	set(prop gocv.VideoCaptureProperties, value float64)
	read(dst *gocv.Mat) bool
	close() error
}

type gocvSource struct {
	capture *gocv.VideoCapture
}

func (s *gocvSource) set(prop gocv.VideoCaptureProperties, value float64) {
	s.capture.Set(prop, value)
}

func (s *gocvSource) read(dst *gocv.Mat) bool {
	return s.capture.Read(dst)
}

func (s *gocvSource) close() error {
	return s.capture.Close()
}

func openGocvSource(deviceID int) (videoSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, err
	}
	return &gocvSource{capture: capture}, nil
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	settings   Settings
	openSource func(deviceID int) (videoSource, error)
	retryDelay time.Duration

	mu      sync.Mutex
	source  videoSource
	running bool
	level   int
}

// NewCamera creates a Camera for the given settings.
func NewCamera(settings Settings) Camera {
	if settings.FPS <= 0 {
		settings.FPS = DefaultFPS
	}
	return &cameraImpl{
		settings:   settings,
		openSource: openGocvSource,
		retryDelay: warmupRetryDelay,
	}
}

// Open acquires the camera, walking the fallback ladder until one level
// yields a readable stream. If the camera is already open, the existing
// stream is released first so only one stream is ever live.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.releaseLocked()
	}

	var lastErr error
	attempts := 0

	for i, level := range Ladder(c.settings) {
		attempts++

		source, err := c.openSource(c.settings.DeviceID)
		if err != nil {
			lastErr = err
			// Relaxing constraints cannot cure a permission denial, so
			// the ladder stops here.
			if camErr := Classify(err, attempts); camErr.Category == CategoryPermission {
				return camErr
			}
			continue
		}

		if level.Width > 0 {
			source.set(gocv.VideoCaptureFrameWidth, float64(level.Width))
			source.set(gocv.VideoCaptureFrameHeight, float64(level.Height))
		}
		source.set(gocv.VideoCaptureFPS, float64(c.settings.FPS))

		if err := c.warmup(source); err != nil {
			lastErr = fmt.Errorf("level %q: %w", level.Name, err)
			source.close()
			continue
		}

		c.source = source
		c.running = true
		c.level = i
		return nil
	}

	return Classify(lastErr, attempts)
}

// warmup confirms the source actually delivers frames. Some drivers need a
// moment after configuration, so a failed first read gets one delayed retry.
func (c *cameraImpl) warmup(source videoSource) error {
	mat := gocv.NewMat()
	defer mat.Close()

	if source.read(&mat) && !mat.Empty() {
		return nil
	}

	time.Sleep(c.retryDelay)
	if source.read(&mat) && !mat.Empty() {
		return nil
	}

	return errors.New("no frames after warmup")
}

// Close closes the camera and releases resources. Closing an already closed
// camera is a no-op.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releaseLocked()
}

func (c *cameraImpl) releaseLocked() error {
	if !c.running || c.source == nil {
		c.running = false
		return nil
	}

	err := c.source.close()
	c.source = nil
	c.running = false
	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.source == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.source.read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen reports whether the camera currently holds a live stream.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// ActiveLevel returns the index of the ladder level that succeeded, or -1
// when the camera is not open.
func (c *cameraImpl) ActiveLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return -1
	}
	return c.level
}

// Settings returns the requested capture configuration.
func (c *cameraImpl) Settings() Settings {
	return c.settings
}
