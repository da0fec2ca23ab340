package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seojin/tapguide/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// GuidanceSource provides the latest guidance snapshot.
type GuidanceSource interface {
	Guidance() session.Guidance
}

// GuidanceHandler broadcasts real-time guidance snapshots via WebSocket.
type GuidanceHandler struct {
	source  GuidanceSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewGuidanceHandler creates a new GuidanceHandler over the given source.
func NewGuidanceHandler(source GuidanceSource) *GuidanceHandler {
	h := &GuidanceHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *GuidanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends guidance snapshots to all connected clients.
func (h *GuidanceHandler) broadcast() {
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 0 {
			continue
		}

		msg, err := json.Marshal(h.source.Guidance())
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
