package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seojin/tapguide/internal/eft"
	"github.com/seojin/tapguide/internal/plan"
	"github.com/seojin/tapguide/internal/player"
	"github.com/seojin/tapguide/internal/session"
)

// fakeSession satisfies SessionController without a camera or detector.
type fakeSession struct {
	player    *player.Player
	running   bool
	restarted bool
}

func (f *fakeSession) Guidance() session.Guidance { return session.Guidance{} }
func (f *fakeSession) Player() *player.Player     { return f.player }
func (f *fakeSession) Restart()                   { f.restarted = true }
func (f *fakeSession) Running() bool              { return f.running }

func testSessionHandler(t *testing.T) (*SessionHandler, *fakeSession) {
	t.Helper()
	p := &plan.SessionPlan{
		Title: "Test",
		Steps: []plan.Step{
			{Point: eft.Brow, Side: eft.SideCenter, DurationSec: 5},
			{Point: eft.Chin, Side: eft.SideCenter, DurationSec: 5},
		},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("plan: %v", err)
	}

	fake := &fakeSession{player: player.New(p, false, nil), running: true}
	return NewSessionHandler(fake), fake
}

func control(t *testing.T, h *SessionHandler, body string) (*httptest.ResponseRecorder, player.Snapshot) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/session/control", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var snap player.Snapshot
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
	}
	return w, snap
}

func TestSessionState(t *testing.T) {
	h, _ := testSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/state", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp stateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Running {
		t.Error("expected running state")
	}
}

func TestSessionControl_Navigation(t *testing.T) {
	h, _ := testSessionHandler(t)

	w, snap := control(t, h, `{"action":"next"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("next status = %d", w.Code)
	}
	if snap.StepIndex != 1 {
		t.Errorf("stepIndex after next = %d, want 1", snap.StepIndex)
	}

	_, snap = control(t, h, `{"action":"prev"}`)
	if snap.StepIndex != 0 {
		t.Errorf("stepIndex after prev = %d, want 0", snap.StepIndex)
	}

	_, snap = control(t, h, `{"action":"goto","stepIndex":1}`)
	if snap.StepIndex != 1 {
		t.Errorf("stepIndex after goto = %d, want 1", snap.StepIndex)
	}

	_, snap = control(t, h, `{"action":"toggle"}`)
	if !snap.Playing {
		t.Error("expected playing after toggle from paused")
	}

	_, snap = control(t, h, `{"action":"reset"}`)
	if snap.StepIndex != 0 {
		t.Errorf("stepIndex after reset = %d, want 0", snap.StepIndex)
	}
}

func TestSessionControl_Restart(t *testing.T) {
	h, fake := testSessionHandler(t)

	w, _ := control(t, h, `{"action":"restart"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !fake.restarted {
		t.Error("expected the session restart to be invoked")
	}
}

func TestSessionControl_Invalid(t *testing.T) {
	h, _ := testSessionHandler(t)

	if w, _ := control(t, h, `{"action":"launch"}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", w.Code)
	}
	if w, _ := control(t, h, `{bad`); w.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session/control", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET control status = %d, want 405", w.Code)
	}
}
