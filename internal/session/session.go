// Package session manages isolated, ephemeral database workspaces.
//
// Each session owns exactly one engine instance backed by its own database
// file. The registry is the isolation boundary: no session's backing store is
// ever visible to another session's operations.
package session

import (
	"sync"
	"time"

	"github.com/ashureev/querycamp/internal/engine"
)

// Mode identifies what a session is currently being used for.
type Mode string

const (
	ModeSandbox   Mode = "sandbox"
	ModeChallenge Mode = "challenge"
	ModeTutorial  Mode = "tutorial"
)

// HandleState tracks the lifecycle of a session's backing-store handle.
type HandleState int

const (
	// HandleUninitialized means no engine has been attached yet.
	HandleUninitialized HandleState = iota
	// HandleAttached means the session owns a live engine instance.
	HandleAttached
	// HandleReleased means the engine was closed; Get re-attaches lazily.
	HandleReleased
)

// QueryHistoryItem is one executed statement with its outcome and timing.
type QueryHistoryItem struct {
	SQL          string    `json:"sql"`
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ElapsedMs    float64   `json:"execution_time_ms"`
	RowCount     int       `json:"row_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Session is one learner workspace with its own database.
// Fields other than ID are guarded by the owning registry's mutex;
// execMu serializes statements against the backing store.
type Session struct {
	ID             string
	Owner          string
	CreatedAt      time.Time
	LastActivityAt time.Time
	Mode           Mode
	ChallengeID    string

	history     []QueryHistoryItem
	handleState HandleState
	eng         engine.Engine

	// execMu guards the engine handle during statement execution so only
	// one statement is in flight per session at a time.
	execMu sync.Mutex
}

// Summary is a snapshot of session metadata for listings.
type Summary struct {
	ID             string    `json:"session_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Mode           Mode      `json:"current_mode"`
	ChallengeID    string    `json:"challenge_id,omitempty"`
}

func (s *Session) summary() Summary {
	return Summary{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		Mode:           s.Mode,
		ChallengeID:    s.ChallengeID,
	}
}
