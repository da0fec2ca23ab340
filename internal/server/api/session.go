package api

import (
	"encoding/json"
	"net/http"

	"github.com/seojin/tapguide/internal/player"
	"github.com/seojin/tapguide/internal/session"
)

// SessionController is the slice of the running session the API drives.
type SessionController interface {
	Guidance() session.Guidance
	Player() *player.Player
	Restart()
	Running() bool
}

// SessionHandler exposes session state and playback controls.
type SessionHandler struct {
	session SessionController
}

// NewSessionHandler creates a SessionHandler for the given session.
func NewSessionHandler(s SessionController) *SessionHandler {
	return &SessionHandler{session: s}
}

// ServeHTTP routes /api/session/state and /api/session/control.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/session/state":
		h.state(w, r)
	case "/api/session/control":
		h.control(w, r)
	default:
		http.NotFound(w, r)
	}
}

type stateResponse struct {
	Running  bool             `json:"running"`
	Guidance session.Guidance `json:"guidance"`
}

type controlRequest struct {
	Action    string `json:"action"`
	StepIndex int    `json:"stepIndex"`
}

// state handles GET /api/session/state.
func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Running:  h.session.Running(),
		Guidance: h.session.Guidance(),
	})
}

// control handles POST /api/session/control and returns the player snapshot
// after the action was applied.
func (h *SessionHandler) control(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p := h.session.Player()
	switch req.Action {
	case "next":
		p.NextStep()
	case "prev":
		p.PrevStep()
	case "toggle":
		p.TogglePlay()
	case "goto":
		p.GoToStep(req.StepIndex)
	case "reset":
		p.Reset()
	case "restart":
		// Full restart: the framing gate re-runs before the plan resumes.
		h.session.Restart()
	default:
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	writeJSON(w, http.StatusOK, p.Snapshot())
}
