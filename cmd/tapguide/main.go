package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/seojin/tapguide/internal/capture"
	"github.com/seojin/tapguide/internal/detector"
	"github.com/seojin/tapguide/internal/plan"
	"github.com/seojin/tapguide/internal/server"
	"github.com/seojin/tapguide/internal/session"
	"github.com/seojin/tapguide/internal/store"
	"github.com/seojin/tapguide/internal/tray"
	"github.com/seojin/tapguide/internal/voice"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	device := flag.Int("device", 0, "camera device ID")
	planFile := flag.String("plan", "", "JSON session plan file (overrides the stored plan)")
	mirror := flag.Bool("mirror", true, "mirror the preview like a selfie camera")
	autoPlay := flag.Bool("autoplay", true, "start the step timer automatically after framing")
	noVoice := flag.Bool("no-voice", false, "disable spoken step cues")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("TapGuide - Guided EFT Tapping")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".tapguide")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "tapguide.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if seeded, err := st.Seed(); err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	} else if seeded != "" {
		log.Printf("Seeded sample plan %s", seeded)
	}

	sessionPlan, err := loadPlan(st, *planFile)
	if err != nil {
		log.Fatalf("Failed to load session plan: %v", err)
	}
	log.Printf("Using plan %q (%d steps, %ds)",
		sessionPlan.Title, len(sessionPlan.Steps), sessionPlan.TotalDuration())

	settings := capture.DefaultSettings()
	settings.DeviceID = *device
	camera := capture.NewCamera(settings)

	// Try MediaPipe first, fall back to the mock detector so the server and
	// plan editor stay usable without the Python service.
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		det = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}

	voiceEnabled := st.Settings().GetBool(store.SettingVoiceEnabled, !*noVoice)
	var speaker voice.Speaker
	if sp, err := voice.NewCommandSpeaker(); err == nil {
		speaker = sp
	} else {
		log.Printf("Voice cues unavailable: %v", err)
		voiceEnabled = false
	}

	sess := session.New(session.Config{
		Camera:   camera,
		Detector: det,
		Plan:     sessionPlan,
		Speaker:  speaker,
		AutoPlay: *autoPlay,
		Mirror:   *mirror,
	})
	sess.Cues().SetEnabled(voiceEnabled)

	if err := sess.Start(); err != nil {
		var camErr *capture.CameraError
		if errors.As(err, &camErr) {
			log.Printf("Camera unavailable: %v", camErr)
			for _, s := range camErr.Solutions {
				log.Printf("  - %s", s)
			}
			if !camErr.CanRetry {
				log.Fatal("Camera cannot recover on this system")
			}
		}
		log.Printf("Session not started: %v (the API stays available)", err)
	}
	defer sess.Stop()

	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		Session:   sess,
	})

	go func() {
		log.Printf("Starting server on %s", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		select {}
	}

	runTray(sess, st, voiceEnabled, *addr)
}

// loadPlan picks the session plan: an explicit file wins, then the stored
// active plan, then the newest stored plan.
func loadPlan(st *store.Store, planFile string) (*plan.SessionPlan, error) {
	if planFile != "" {
		return plan.LoadFile(planFile)
	}

	if id, err := st.Settings().Get(store.SettingActivePlan); err == nil {
		if p, err := st.Plans().GetByID(id); err == nil {
			return p.SessionPlan()
		}
	}

	plans, err := st.Plans().List()
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return plan.Sample(), nil
	}
	return plans[0].SessionPlan()
}

// runTray blocks on the system tray loop, wiring its menu to the session.
func runTray(sess *session.Session, st *store.Store, voiceEnabled bool, addr string) {
	t := tray.New(voiceEnabled)

	t.OnVoiceToggle(func(enabled bool) {
		sess.Cues().SetEnabled(enabled)
		if err := st.Settings().SetBool(store.SettingVoiceEnabled, enabled); err != nil {
			log.Printf("Failed to save voice setting: %v", err)
		}
	})
	t.OnRestart(sess.Restart)
	t.OnDashboard(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		sess.Stop()
	})

	// Mirror the player state into the tray status line.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			snap := sess.Player().Snapshot()
			t.SetStatus(fmt.Sprintf("%s (step %d/%d)",
				snap.State, snap.StepIndex+1, snap.TotalSteps))
		}
	}()

	t.Run()
}

// openBrowser opens a URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".tapguide", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
