// Package tray provides the system tray interface for the tapping guidance
// service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onVoiceToggle func(enabled bool)
	onRestart     func()
	onDashboard   func()
	onQuit        func()
	voiceEnabled  bool
	mu            sync.RWMutex

	// Menu items stored for later updates
	menuVoice  *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance. voiceEnabled sets the initial state of the
// voice cue toggle.
func New(voiceEnabled bool) *Tray {
	return &Tray{
		voiceEnabled: voiceEnabled,
	}
}

// OnVoiceToggle sets the callback for the voice cue toggle.
func (t *Tray) OnVoiceToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onVoiceToggle = fn
}

// OnRestart sets the callback for the restart menu item.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnDashboard sets the callback for the open dashboard menu item.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("TapGuide")
	systray.SetTooltip("TapGuide Tapping Guidance")

	t.menuStatus = systray.AddMenuItem("Session: idle", "Current session state")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuVoice = systray.AddMenuItem(voiceTitle(t.voiceEnabled), "Toggle spoken step cues")
	menuRestart := systray.AddMenuItem("Restart Session", "Re-run framing and start over")
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the guidance dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit TapGuide")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuVoice.ClickedCh:
				t.handleVoiceToggle()
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func voiceTitle(enabled bool) string {
	if enabled {
		return "● Voice Cues On"
	}
	return "○ Voice Cues Off"
}

// handleVoiceToggle handles the voice toggle menu item click.
func (t *Tray) handleVoiceToggle() {
	t.mu.Lock()
	t.voiceEnabled = !t.voiceEnabled
	enabled := t.voiceEnabled
	t.menuVoice.SetTitle(voiceTitle(enabled))
	callback := t.onVoiceToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleRestart handles the restart menu item click.
func (t *Tray) handleRestart() {
	t.mu.RLock()
	callback := t.onRestart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the session status line in the menu.
func (t *Tray) SetStatus(status string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		if status == "" {
			status = "idle"
		}
		t.menuStatus.SetTitle("Session: " + status)
	}
}

// VoiceEnabled returns the current voice cue state.
func (t *Tray) VoiceEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.voiceEnabled
}
