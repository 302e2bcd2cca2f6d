// Package api provides HTTP handlers for the QueryCamp API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashureev/querycamp/internal/catalog"
	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/live"
	"github.com/ashureev/querycamp/internal/progress"
	"github.com/ashureev/querycamp/internal/session"
)

// Handler provides common handler utilities and shared dependencies.
type Handler struct {
	sessions *session.Registry
	catalog  *catalog.Registry
	grader   *challenge.Grader
	progress *progress.Store
	hub      *live.Hub
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(sessions *session.Registry, cat *catalog.Registry, grader *challenge.Grader, prog *progress.Store, hub *live.Hub) *Handler {
	return &Handler{
		sessions: sessions,
		catalog:  cat,
		grader:   grader,
		progress: prog,
		hub:      hub,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
