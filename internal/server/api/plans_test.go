package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/seojin/tapguide/internal/store"
)

func testHandler(t *testing.T) (*PlanHandler, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewPlanHandler(s), s
}

func validPlanBody() []byte {
	return []byte(`{
		"title": "Quick Round",
		"introTip": "Take a deep breath",
		"steps": [
			{"point": "brow", "side": "center", "durationSec": 5, "tip": "Tap gently"},
			{"point": "chin", "side": "center"}
		]
	}`)
}

func createPlan(t *testing.T, h *PlanHandler) planResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/plans", bytes.NewReader(validPlanBody()))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestPlans_Create(t *testing.T) {
	h, _ := testHandler(t)
	resp := createPlan(t, h)

	if resp.ID == "" {
		t.Error("expected a generated ID")
	}
	if len(resp.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(resp.Steps))
	}
	// The omitted duration picks up the default.
	if resp.Steps[1].DurationSec != 5 {
		t.Errorf("default duration = %d, want 5", resp.Steps[1].DurationSec)
	}
	if resp.TotalDurationSec != 10 {
		t.Errorf("total duration = %d, want 10", resp.TotalDurationSec)
	}
}

func TestPlans_CreateRejectsInvalid(t *testing.T) {
	h, _ := testHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{not json`},
		{"no title", `{"steps":[{"point":"brow","side":"center"}]}`},
		{"no steps", `{"title":"Empty"}`},
		{"unknown point", `{"title":"Bad","steps":[{"point":"elbow","side":"center"}]}`},
		{"unknown side", `{"title":"Bad","steps":[{"point":"brow","side":"middle"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/plans", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPlans_GetAndList(t *testing.T) {
	h, _ := testHandler(t)
	created := createPlan(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/plans/"+created.ID, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Quick Round" {
		t.Errorf("title = %q", got.Title)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/plans", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var list listPlansResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Plans) != 1 {
		t.Errorf("expected 1 plan, got %d", len(list.Plans))
	}
}

func TestPlans_GetMissing(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/plans/does-not-exist", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPlans_Update(t *testing.T) {
	h, _ := testHandler(t)
	created := createPlan(t, h)

	body := []byte(`{
		"title": "Renamed Round",
		"steps": [{"point": "top_head", "side": "center", "durationSec": 8}]
	}`)
	req := httptest.NewRequest(http.MethodPut, "/api/plans/"+created.ID, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	var got planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Renamed Round" || len(got.Steps) != 1 {
		t.Errorf("unexpected update result: %+v", got)
	}
}

func TestPlans_Delete(t *testing.T) {
	h, _ := testHandler(t)
	created := createPlan(t, h)

	req := httptest.NewRequest(http.MethodDelete, "/api/plans/"+created.ID, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/plans/"+created.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", w.Code)
	}
}

func TestPlans_MethodNotAllowed(t *testing.T) {
	h, _ := testHandler(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/plans", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
