package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler reports API liveness and basic workload stats.
type HealthHandler struct {
	*Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(base *Handler) *HealthHandler {
	return &HealthHandler{Handler: base}
}

// Health returns the health status of the API.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"checks":          map[string]string{"api": "ok"},
		"active_sessions": len(h.sessions.List()),
		"challenges":      len(h.catalog.ListAll()),
	})
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/healthz", h.Health)
}
