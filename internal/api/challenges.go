package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/querycamp/internal/challenge"
	"github.com/ashureev/querycamp/internal/identity"
	"github.com/ashureev/querycamp/internal/progress"
	"github.com/ashureev/querycamp/internal/session"
)

// ChallengeHandler handles challenge catalog, grading and progress endpoints.
type ChallengeHandler struct {
	*Handler
}

// NewChallengeHandler creates a new challenge handler.
func NewChallengeHandler(base *Handler) *ChallengeHandler {
	return &ChallengeHandler{Handler: base}
}

// RegisterRoutes registers challenge and progress routes.
func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/challenges", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{challengeID}", h.Get)
		r.Post("/{challengeID}/setup", h.Setup)
		r.Post("/{challengeID}/submit", h.Submit)
		r.Get("/{challengeID}/hints/{index}", h.Hint)
	})
	r.Get("/api/progress", h.Progress)
}

// challengeView is the public challenge shape. Validation rules and the
// reference query never leave the server.
type challengeView struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Category             challenge.Category   `json:"category"`
	Difficulty           challenge.Difficulty `json:"difficulty"`
	XPReward             int                  `json:"xp_reward"`
	HintCount            int                  `json:"hint_count"`
	HintPenaltyXP        int                  `json:"hint_penalty_xp"`
	EstimatedTimeMinutes int                  `json:"estimated_time_minutes"`
	Prerequisites        []string             `json:"prerequisites,omitempty"`
	Tags                 []string             `json:"tags,omitempty"`
}

func viewOf(ch *challenge.Challenge) challengeView {
	return challengeView{
		ID:                   ch.ID,
		Title:                ch.Title,
		Description:          ch.Description,
		Category:             ch.Category,
		Difficulty:           ch.Difficulty,
		XPReward:             ch.XPReward,
		HintCount:            len(ch.Hints),
		HintPenaltyXP:        ch.HintPenaltyXP,
		EstimatedTimeMinutes: ch.EstimatedTimeMinutes,
		Prerequisites:        ch.Prerequisites,
		Tags:                 ch.Tags,
	}
}

// List returns all challenges grouped by category.
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	groups := h.catalog.Categories()
	JSON(w, http.StatusOK, map[string]interface{}{
		"categories": groups,
		"total":      len(h.catalog.ListAll()),
	})
}

// Get returns one challenge's public detail.
func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ch := h.catalog.Get(chi.URLParam(r, "challengeID"))
	if ch == nil {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}
	JSON(w, http.StatusOK, viewOf(ch))
}

type setupRequest struct {
	SessionID string `json:"session_id"`
}

// Setup materializes the challenge's scenario in the given session.
func (h *ChallengeHandler) Setup(w http.ResponseWriter, r *http.Request) {
	ch := h.catalog.Get(chi.URLParam(r, "challengeID"))
	if ch == nil {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	var req setupRequest
	if err := decode(r, &req); err != nil || req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ok, message := h.grader.Setup(r.Context(), req.SessionID, ch)
	if !ok {
		Error(w, http.StatusBadRequest, message)
		return
	}

	h.sessions.SetMode(req.SessionID, session.ModeChallenge, ch.ID)

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      message,
		"challenge_id": ch.ID,
		"tables":       h.sessions.Tables(r.Context(), req.SessionID),
	})
}

type submitRequest struct {
	SessionID string `json:"session_id"`
	SQL       string `json:"sql"`
	HintsUsed int    `json:"hints_used"`
}

// Submit grades a submission against the challenge's rules and applies the
// verdict to the learner's progress.
func (h *ChallengeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ch := h.catalog.Get(chi.URLParam(r, "challengeID"))
	if ch == nil {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	var req submitRequest
	if err := decode(r, &req); err != nil || req.SessionID == "" || req.SQL == "" {
		Error(w, http.StatusBadRequest, "session_id and sql are required")
		return
	}
	if req.HintsUsed < 0 {
		req.HintsUsed = 0
	}

	if h.sessions.Summary(req.SessionID) == nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}

	sub := h.grader.Validate(r.Context(), req.SessionID, ch, req.SQL, req.HintsUsed)

	response := map[string]interface{}{"submission": sub}
	if userID := identity.UserIDFromContext(r.Context()); userID != "" {
		h.progress.RecordSubmission(userID, sub)
		response["progress"] = h.progress.Get(userID)
	}
	if sub.Passed && ch.ConceptExplanation != "" {
		response["concept_explanation"] = ch.ConceptExplanation
	}

	JSON(w, http.StatusOK, response)
}

// Hint returns one hint by zero-based index. The client reports the number of
// hints taken when it submits; each one reduces the challenge's XP reward.
func (h *ChallengeHandler) Hint(w http.ResponseWriter, r *http.Request) {
	ch := h.catalog.Get(chi.URLParam(r, "challengeID"))
	if ch == nil {
		Error(w, http.StatusNotFound, "challenge not found")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(ch.Hints) {
		Error(w, http.StatusNotFound, "hint not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"challenge_id": ch.ID,
		"index":        index,
		"hint":         ch.Hints[index],
		"remaining":    len(ch.Hints) - index - 1,
		"penalty_xp":   ch.HintPenaltyXP,
	})
}

// Progress returns the current learner's progression snapshot with level
// detail and earned badge definitions.
func (h *ChallengeHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p := h.progress.Get(userID)

	badges := make([]progress.Badge, 0, len(p.EarnedBadges))
	for _, b := range progress.Badges {
		if p.HasBadge(b.ID) {
			badges = append(badges, b)
		}
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"progress":         p,
		"level":            p.LevelInfo(),
		"xp_to_next_level": p.XPToNextLevel(),
		"badges":           badges,
		"username":         identity.UsernameFromContext(r.Context()),
	})
}
