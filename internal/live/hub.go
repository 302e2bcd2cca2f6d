// Package live streams session query events to WebSocket watchers.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// Event is one item broadcast to a session's watchers.
type Event struct {
	Type         string    `json:"type"`
	SQL          string    `json:"sql,omitempty"`
	Success      bool      `json:"success"`
	RowCount     int       `json:"row_count"`
	ElapsedMs    float64   `json:"execution_time_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// QueryEvent builds the event broadcast after each executed statement.
func QueryEvent(sql string, success bool, rowCount int, elapsedMs float64, errMsg string) Event {
	return Event{
		Type:         "query",
		SQL:          sql,
		Success:      success,
		RowCount:     rowCount,
		ElapsedMs:    elapsedMs,
		ErrorMessage: errMsg,
		Timestamp:    time.Now(),
	}
}

// Hub tracks active WebSocket watchers per session.
type Hub struct {
	mu       sync.RWMutex
	watchers map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{watchers: make(map[string]map[*websocket.Conn]struct{})}
}

// Register adds a watcher for a session.
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.watchers[sessionID]; !ok {
		h.watchers[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.watchers[sessionID][conn] = struct{}{}
	slog.Info("Session watcher registered", "session_id", sessionID)
}

// Unregister removes a watcher for a session.
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.watchers[sessionID]; ok {
		if _, exists := conns[conn]; exists {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.watchers, sessionID)
			}
			slog.Info("Session watcher unregistered", "session_id", sessionID)
		}
	}
}

// WatcherCount returns the number of active watchers for a session.
func (h *Hub) WatcherCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[sessionID])
}

// Broadcast sends an event to every watcher of the session. Write failures
// drop the watcher.
func (h *Hub) Broadcast(sessionID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode session event", "session_id", sessionID, "error", err)
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.watchers[sessionID]))
	for conn := range h.watchers[sessionID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Debug("Dropping session watcher after write failure", "session_id", sessionID, "error", err)
			h.Unregister(sessionID, conn)
			_ = conn.Close(websocket.StatusNormalClosure, "write failed")
		}
	}
}

// CloseSession terminates all watchers of a session. Used when the session
// is deleted or swept.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	conns := h.watchers[sessionID]
	delete(h.watchers, sessionID)
	h.mu.Unlock()

	for conn := range conns {
		_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	}
	if len(conns) > 0 {
		slog.Info("Session watchers closed", "session_id", sessionID, "count", len(conns))
	}
}
