// Package api provides the HTTP API handlers for the tapping guidance
// service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/seojin/tapguide/internal/store"
)

// PlanHandler handles HTTP requests for session plan resources.
type PlanHandler struct {
	store *store.Store
}

// NewPlanHandler creates a new PlanHandler with the given store.
func NewPlanHandler(s *store.Store) *PlanHandler {
	return &PlanHandler{store: s}
}

// ServeHTTP routes collection and item requests.
// Expected paths: /api/plans or /api/plans/{id}
func (h *PlanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/plans")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type stepPayload struct {
	Point       string `json:"point"`
	Side        string `json:"side"`
	DurationSec int    `json:"durationSec"`
	Tip         string `json:"tip,omitempty"`
}

type planRequest struct {
	Title    string        `json:"title"`
	IntroTip string        `json:"introTip"`
	Steps    []stepPayload `json:"steps"`
}

type planResponse struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	IntroTip         string        `json:"introTip,omitempty"`
	Steps            []stepPayload `json:"steps"`
	TotalDurationSec int           `json:"totalDurationSec"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
}

type listPlansResponse struct {
	Plans []planResponse `json:"plans"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Plan to a planResponse.
func toResponse(p *store.Plan) planResponse {
	steps := make([]stepPayload, 0, len(p.Steps))
	total := 0
	for _, s := range p.Steps {
		steps = append(steps, stepPayload{
			Point:       s.Point,
			Side:        s.Side,
			DurationSec: s.DurationSec,
			Tip:         s.Tip,
		})
		total += s.DurationSec
	}

	return planResponse{
		ID:               p.ID,
		Title:            p.Title,
		IntroTip:         p.IntroTip,
		Steps:            steps,
		TotalDurationSec: total,
		CreatedAt:        p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toRecord converts a request body to a store.Plan and validates it via the
// runtime plan rules, which also fill in default step durations.
func toRecord(req planRequest) (*store.Plan, error) {
	p := &store.Plan{
		Title:    req.Title,
		IntroTip: req.IntroTip,
		Steps:    make([]store.PlanStep, len(req.Steps)),
	}
	for i, s := range req.Steps {
		p.Steps[i] = store.PlanStep{
			Point:       s.Point,
			Side:        s.Side,
			DurationSec: s.DurationSec,
			Tip:         s.Tip,
		}
	}

	sp, err := p.SessionPlan()
	if err != nil {
		return nil, err
	}
	for i, s := range sp.Steps {
		p.Steps[i].DurationSec = s.DurationSec
	}

	return p, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/plans and returns all plans.
func (h *PlanHandler) list(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.Plans().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans")
		return
	}

	response := listPlansResponse{
		Plans: make([]planResponse, 0, len(plans)),
	}
	for _, p := range plans {
		response.Plans = append(response.Plans, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/plans/{id} and returns a single plan.
func (h *PlanHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Plans().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get plan")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

// create handles POST /api/plans and creates a new plan.
func (h *PlanHandler) create(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := toRecord(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = uuid.New().String()

	if err := h.store.Plans().Create(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(p))
}

// update handles PUT /api/plans/{id} and replaces an existing plan.
func (h *PlanHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := toRecord(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = id

	if err := h.store.Plans().Update(p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

// delete handles DELETE /api/plans/{id} and removes a plan.
func (h *PlanHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Plans().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
