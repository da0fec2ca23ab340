package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// MediaPipeDetector implements Detector using a Python MediaPipe pose
// subprocess. Frames are sent as length-prefixed JPEG; results come back as
// JSON lines.
type MediaPipeDetector struct {
	config  Config
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
}

// NewMediaPipeDetector creates a new MediaPipe pose detector. It verifies the
// service script exists but does not start the Python process; call Init.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if findPoseScript() == "" {
		return nil, fmt.Errorf("pose_service.py not found")
	}

	return &MediaPipeDetector{
		config: config,
	}, nil
}

// Init starts the Python pose service.
func (d *MediaPipeDetector) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	scriptPath := findPoseScript()
	if scriptPath == "" {
		return fmt.Errorf("pose_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{scriptPath}
	if d.config.WithFaceMesh {
		args = append(args, "--face-mesh")
	}
	d.cmd = exec.Command(pythonPath, args...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

// Detect analyzes a frame and returns the detected pose, or nil when the
// service reports no subject.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat, timestampMs int64) (*Pose, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, ErrNotInitialized
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write timestamp (8 bytes) + length (4 bytes) + data, big-endian
	header := make([]byte, 12)
	binary.BigEndian.PutUint64(header[:8], uint64(timestampMs))
	binary.BigEndian.PutUint32(header[8:], uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Poses []jsonPose `json:"poses"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(response.Poses) == 0 {
		return nil, nil
	}

	pose := response.Poses[0].toPose()
	return pose, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func findPoseScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".tapguide/scripts/pose_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".tapguide/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonPose represents the JSON structure from the Python service.
type jsonPose struct {
	Points []jsonPoint `json:"points"`
	Face   []jsonPoint `json:"face"`
	Score  float64     `json:"score"`
}

type jsonPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Vis float64 `json:"visibility"`
}

func (p jsonPose) toPose() *Pose {
	pose := &Pose{
		Points: make([]Point, len(p.Points)),
		Score:  p.Score,
	}

	for i, pt := range p.Points {
		pose.Points[i] = Point{X: pt.X, Y: pt.Y, Visibility: pt.Vis}
	}

	if len(p.Face) > 0 {
		pose.Face = make([]Point, len(p.Face))
		for i, pt := range p.Face {
			pose.Face[i] = Point{X: pt.X, Y: pt.Y, Visibility: pt.Vis}
		}
	}

	return pose
}
