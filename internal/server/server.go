// Package server provides the HTTP surface of the tapping guidance service:
// the plan API, session state and controls, the MJPEG preview stream and the
// guidance WebSocket.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/seojin/tapguide/internal/server/api"
	"github.com/seojin/tapguide/internal/session"
	"github.com/seojin/tapguide/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Session   *session.Session
}

// Server represents the HTTP server for the guidance application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		planHandler := api.NewPlanHandler(s.config.Store)
		s.mux.Handle("/api/plans", planHandler)
		s.mux.Handle("/api/plans/", planHandler)
	}

	if s.config.Session != nil {
		sessionHandler := api.NewSessionHandler(s.config.Session)
		s.mux.Handle("/api/session/state", sessionHandler)
		s.mux.Handle("/api/session/control", sessionHandler)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Session))
		s.mux.Handle("/api/guidance", NewGuidanceHandler(s.config.Session))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
