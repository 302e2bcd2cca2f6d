package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/querycamp/internal/identity"
	"github.com/ashureev/querycamp/internal/live"
)

// SessionHandler handles session lifecycle and query endpoints.
type SessionHandler struct {
	*Handler
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *Handler) *SessionHandler {
	return &SessionHandler{Handler: base}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{sessionID}", h.Get)
		r.Delete("/{sessionID}", h.Delete)
		r.Post("/{sessionID}/reset", h.Reset)
		r.Post("/{sessionID}/query", h.Query)
		r.Get("/{sessionID}/history", h.History)
		r.Get("/{sessionID}/schema", h.Schema)
		r.Get("/{sessionID}/schema/{table}", h.TableSchema)
		r.Get("/{sessionID}/schema/{table}/preview", h.TablePreview)
	})
}

// Create allocates a fresh session with an empty isolated database.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := identity.UserIDFromContext(r.Context())

	s, err := h.sessions.Create(owner)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":   s.ID,
		"created_at":   s.CreatedAt,
		"current_mode": s.Mode,
		"message":      "Session created. You have a private database to experiment with.",
	})
}

// List returns all active sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.List()
	JSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// Get returns one session's metadata.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	summary := h.sessions.Summary(id)
	if summary == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, summary)
}

// Delete tears down a session and its database.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.sessions.Delete(id) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	h.hub.CloseSession(id)
	JSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

// Reset wipes the session's database back to empty.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.sessions.Reset(id) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Session reset. Database is empty."})
}

type queryRequest struct {
	SQL string `json:"sql"`
}

// Query executes one SQL statement in the session's database.
// Execution errors are part of the result payload, not HTTP errors.
func (h *SessionHandler) Query(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req queryRequest
	if err := decode(r, &req); err != nil || req.SQL == "" {
		Error(w, http.StatusBadRequest, "sql is required")
		return
	}

	if h.sessions.Summary(id) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	result := h.sessions.Execute(r.Context(), id, req.SQL)

	if userID := identity.UserIDFromContext(r.Context()); userID != "" {
		h.progress.RecordQuery(userID)
	}
	h.hub.Broadcast(id, live.QueryEvent(req.SQL, result.Success, result.RowCount, result.ElapsedMs, result.ErrorMessage))

	JSON(w, http.StatusOK, result)
}

// History returns the session's executed statements, oldest first.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if h.sessions.Summary(id) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	history := h.sessions.History(id)
	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"history":    history,
		"count":      len(history),
	})
}

// Schema returns all tables in the session's database.
func (h *SessionHandler) Schema(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if h.sessions.Summary(id) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	tables := h.sessions.Tables(r.Context(), id)
	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"tables":     tables,
		"count":      len(tables),
	})
}

// TableSchema returns the schema of one table.
func (h *SessionHandler) TableSchema(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	table := chi.URLParam(r, "table")

	if h.sessions.Summary(id) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	info := h.sessions.TableSchema(r.Context(), id, table)
	if info == nil {
		Error(w, http.StatusNotFound, "table not found")
		return
	}
	JSON(w, http.StatusOK, info)
}

// TablePreview returns the first rows of a table.
func (h *SessionHandler) TablePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	table := chi.URLParam(r, "table")

	if h.sessions.Summary(id) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	result := h.sessions.TablePreview(r.Context(), id, table, limit)
	if !result.Success {
		Error(w, http.StatusNotFound, result.ErrorMessage)
		return
	}
	JSON(w, http.StatusOK, result)
}
