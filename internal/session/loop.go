package session

import (
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/seojin/tapguide/internal/calibrate"
	"github.com/seojin/tapguide/internal/detector"
	"github.com/seojin/tapguide/internal/eft"
	"github.com/seojin/tapguide/internal/overlay"
	"github.com/seojin/tapguide/internal/plan"
)

// pulsePeriod is the marker pulse cycle length.
const pulsePeriod = 1200 * time.Millisecond

// runLoop is the capture loop: read a frame, run detection and calibration,
// map and smooth the active tapping point, composite the overlay and publish.
// Read failures back off exponentially and never kill the loop.
func (s *Session) runLoop(stopCh chan struct{}) {
	interval := time.Second / time.Duration(s.config.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	backoff := NewBackoff()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		frame, err := s.camera.ReadFrame()
		if err != nil {
			delay := backoff.Next()
			log.Printf("Error reading frame: %v (retrying in %v)", err, delay)
			select {
			case <-stopCh:
				return
			case <-time.After(delay):
			}
			continue
		}

		backoff.Reset()
		s.processFrame(frame)
		frame.Close()
	}
}

// processFrame runs one full guidance pass over a captured frame.
func (s *Session) processFrame(frame *gocv.Mat) {
	now := time.Now()

	pose, err := s.detector.Detect(frame, now.UnixMilli())
	if err != nil {
		log.Printf("Error detecting pose: %v", err)
		pose = nil
	}

	status := s.gate.Evaluate(pose, calibrate.MeanLuma(frame), now)
	snap := s.player.Snapshot()

	g := Guidance{
		Calibration: status,
		Player:      snap,
	}

	of := overlay.Frame{
		PulsePhase: pulsePhase(now),
	}

	if status.Ready {
		step := snap.Step
		key := eft.Key(step.Point, step.Side)
		raw := eft.MapPoint(pose, step.Point, step.Side)
		smoothed := s.smoother.Smooth(key, raw)

		g.Point = smoothed
		g.PointKey = key
		g.Tracking = raw != nil

		of.Point = smoothed
		of.Label = stepLabel(step)
		of.Tip = step.Tip
		of.Completed = s.completedPoints(pose, snap.StepIndex)
		if snap.CountingDown {
			of.CountdownSec = snap.TimeLeft
		}
	} else {
		// Pre-session framing: show the safe-frame guide and the hold
		// countdown once conditions are met.
		of.SafeFrame = true
		of.CountdownSec = status.CountdownSec
		of.Tip = framingTip(status.Checks)
	}

	s.renderer.Render(frame, of)

	var jpeg []byte
	if buf, err := gocv.IMEncode(".jpg", *frame); err == nil {
		jpeg = append([]byte(nil), buf.GetBytes()...)
		buf.Close()
	} else {
		log.Printf("Error encoding frame: %v", err)
	}

	s.publish(jpeg, g)
}

// completedPoints maps the tapping points of already finished steps so the
// overlay can show them dimmed. Duplicate point/side pairs collapse to one
// marker.
func (s *Session) completedPoints(pose *detector.Pose, upto int) []eft.XY {
	if pose == nil || upto <= 0 {
		return nil
	}

	steps := s.config.Plan.Steps
	if upto > len(steps) {
		upto = len(steps)
	}

	seen := make(map[string]bool, upto)
	var points []eft.XY
	for _, step := range steps[:upto] {
		key := eft.Key(step.Point, step.Side)
		if seen[key] {
			continue
		}
		seen[key] = true

		if p := eft.MapPoint(pose, step.Point, step.Side); p != nil {
			points = append(points, *p)
		}
	}
	return points
}

// pulsePhase returns the marker pulse phase in [0,1) for a wall-clock time.
func pulsePhase(now time.Time) float64 {
	ms := now.UnixMilli() % int64(pulsePeriod/time.Millisecond)
	return float64(ms) / float64(pulsePeriod/time.Millisecond)
}

func stepLabel(step plan.Step) string {
	label := step.Point.Label()
	switch step.Side {
	case eft.SideLeft:
		return fmt.Sprintf("%s (left)", label)
	case eft.SideRight:
		return fmt.Sprintf("%s (right)", label)
	default:
		return label
	}
}

// framingTip turns the failing calibration check into one short instruction.
func framingTip(c calibrate.Checks) string {
	switch {
	case !c.Lighting:
		return "Adjust your lighting"
	case !c.Distance:
		return "Move so your head and shoulders fill the frame"
	case !c.Alignment:
		return "Center yourself in the frame"
	default:
		return "Hold still"
	}
}
