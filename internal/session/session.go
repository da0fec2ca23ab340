// Package session orchestrates one guided tapping session: it owns the
// camera, the pose detector, the framing gate, the step player and the
// overlay renderer, and runs the capture loop that ties them together.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/seojin/tapguide/internal/calibrate"
	"github.com/seojin/tapguide/internal/capture"
	"github.com/seojin/tapguide/internal/detector"
	"github.com/seojin/tapguide/internal/eft"
	"github.com/seojin/tapguide/internal/overlay"
	"github.com/seojin/tapguide/internal/plan"
	"github.com/seojin/tapguide/internal/player"
	"github.com/seojin/tapguide/internal/voice"
)

// DefaultFPS is the capture loop rate.
const DefaultFPS = 15

// Config holds everything a session needs. Camera and Detector are required;
// Speaker may be nil to run silently.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Plan     *plan.SessionPlan
	Speaker  voice.Speaker
	AutoPlay bool
	Mirror   bool
	FPS      int

	// Gate overrides the framing thresholds; the zero value selects the
	// defaults.
	Gate calibrate.Config
}

// Guidance is the per-frame state broadcast to clients: the calibration gate,
// the player position and the smoothed location of the active tapping point.
type Guidance struct {
	Calibration calibrate.Status `json:"calibration"`
	Player      player.Snapshot  `json:"player"`
	Point       *eft.XY          `json:"point,omitempty"`
	PointKey    string           `json:"pointKey,omitempty"`
	Tracking    bool             `json:"tracking"`
	TimestampMs int64            `json:"timestamp"`
}

// Session runs one guided tapping round end to end. The capture loop is the
// single writer of the latest frame and guidance snapshot; HTTP and WebSocket
// handlers only read them.
type Session struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	smoother *eft.Smoother
	player   *player.Player
	renderer *overlay.Renderer
	gate     *calibrate.Gate
	cues     *voice.Service

	mu       sync.RWMutex
	stopCh   chan struct{}
	frame    []byte
	guidance Guidance
}

// New creates a Session from the given configuration. The plan must be
// validated and non-empty.
func New(config Config) *Session {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}

	cues := voice.NewService(config.Speaker)

	s := &Session{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		smoother: eft.NewSmoother(eft.DefaultAlpha),
		renderer: overlay.NewRenderer(config.Mirror),
		cues:     cues,
	}
	gateConfig := config.Gate
	if gateConfig == (calibrate.Config{}) {
		gateConfig = calibrate.DefaultConfig()
	}

	s.player = player.New(config.Plan, config.AutoPlay, cues)
	s.gate = calibrate.NewGate(gateConfig, s.onCalibrated)

	return s
}

// Start opens the camera, initializes the detector and launches the capture
// loop. The step player stays idle until the framing gate completes. Starting
// a running session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return err
	}

	if err := s.detector.Init(); err != nil {
		s.camera.Close()
		return err
	}

	s.stopCh = make(chan struct{})
	go s.runLoop(s.stopCh)

	log.Println("Session started")
	return nil
}

// Stop halts the capture loop and releases every resource. Teardown order
// matters: the loop must drain before the camera and detector close under it.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.stopCh = nil
	s.mu.Unlock()

	s.player.Stop()
	s.cues.Stop()

	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := s.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}
	s.smoother.Reset()

	log.Println("Session stopped")
}

// onCalibrated fires once when the framing gate completes its hold countdown.
func (s *Session) onCalibrated() {
	log.Println("Framing confirmed, starting session plan")
	s.player.Start()
}

// Restart returns the session to its pre-calibration state with the same plan:
// the gate re-runs and the player rewinds to the first step.
func (s *Session) Restart() {
	s.player.Stop()
	s.player.Reset()
	s.gate.Reset()
	s.smoother.Reset()
}

// Player exposes the step player for transport-layer controls.
func (s *Session) Player() *player.Player {
	return s.player
}

// Gate exposes the framing gate.
func (s *Session) Gate() *calibrate.Gate {
	return s.gate
}

// Cues exposes the voice cue service.
func (s *Session) Cues() *voice.Service {
	return s.cues
}

// Running reports whether the capture loop is active.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopCh != nil
}

// LatestFrame returns the most recent composited JPEG frame, or nil before
// the first frame lands.
func (s *Session) LatestFrame() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Guidance returns the most recent guidance snapshot.
func (s *Session) Guidance() Guidance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guidance
}

func (s *Session) publish(frame []byte, g Guidance) {
	g.TimestampMs = time.Now().UnixMilli()

	s.mu.Lock()
	if frame != nil {
		s.frame = frame
	}
	s.guidance = g
	s.mu.Unlock()
}
