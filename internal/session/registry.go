package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/querycamp/internal/engine"
)

const (
	// DefaultMaxHistoryItems caps per-session query history.
	DefaultMaxHistoryItems = 100

	dbFileName = "db.sqlite"
)

// Factory provisions a backing store at the given path.
// nuke indicates whether any existing file must be wiped first.
type Factory func(dbPath string, nuke bool) (engine.Engine, error)

// Options configures a Registry.
type Options struct {
	// Dir is the base directory for per-session database files.
	Dir string

	// MaxHistoryItems caps the per-session query history (FIFO eviction).
	// Zero means DefaultMaxHistoryItems.
	MaxHistoryItems int

	// Factory provisions backing stores. Nil means SQLite.
	Factory Factory
}

// Registry maps session ids to session state. A single coarse-grained mutex
// guards all map access and metadata stamps; query execution against a
// session's own backing store happens outside the lock, so different sessions
// execute concurrently without contention.
type Registry struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	dir        string
	maxHistory int
	factory    Factory
}

// NewRegistry creates a registry rooted at opts.Dir and removes any orphaned
// session directories left behind by a previous process.
func NewRegistry(opts Options) (*Registry, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("sessions dir cannot be empty")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}

	maxHistory := opts.MaxHistoryItems
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistoryItems
	}

	factory := opts.Factory
	if factory == nil {
		factory = func(dbPath string, nuke bool) (engine.Engine, error) {
			return engine.NewSQLiteEngine(dbPath, nuke)
		}
	}

	r := &Registry{
		sessions:   make(map[string]*Session),
		dir:        opts.Dir,
		maxHistory: maxHistory,
		factory:    factory,
	}
	r.cleanupOrphanedDirs()
	return r, nil
}

// cleanupOrphanedDirs removes session directories without a registered
// session. Best effort: failures are logged and skipped.
func (r *Registry) cleanupOrphanedDirs() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		slog.Warn("Failed to scan sessions directory for orphans", "dir", r.dir, "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := r.sessions[entry.Name()]; ok {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("Failed to remove orphaned session directory", "path", path, "error", err)
		}
	}
}

func (r *Registry) dbPath(id string) string {
	return filepath.Join(r.dir, id, dbFileName)
}

// Create allocates a fresh session with an isolated backing store.
// owner is optional and only recorded for bookkeeping.
func (r *Registry) Create(owner string) (*Session, error) {
	id := uuid.NewString()
	now := time.Now()

	eng, err := r.factory(r.dbPath(id), true)
	if err != nil {
		return nil, fmt.Errorf("provision session storage: %w", err)
	}

	s := &Session{
		ID:             id,
		Owner:          owner,
		CreatedAt:      now,
		LastActivityAt: now,
		Mode:           ModeSandbox,
		handleState:    HandleAttached,
		eng:            eng,
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	slog.Info("Session created", "session_id", id)
	return s, nil
}

// Get returns the session if present, stamping its last-activity time.
// If the backing-store handle was released it is lazily re-attached;
// a re-attach failure makes the session unavailable.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil
	}

	s.LastActivityAt = time.Now()

	if s.handleState != HandleAttached || s.eng == nil {
		eng, err := r.factory(r.dbPath(id), false)
		if err != nil {
			slog.Error("Failed to re-attach session storage", "session_id", id, "error", err)
			return nil
		}
		s.eng = eng
		s.handleState = HandleAttached
	}

	return s
}

// handle returns the session's engine for execution, re-checking attachment
// under the registry lock. Callers must hold s.execMu.
func (r *Registry) handle(s *Session) engine.Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.handleState != HandleAttached {
		return nil
	}
	return s.eng
}

func notFoundResult(id string) engine.QueryResult {
	return engine.QueryResult{
		Success:      false,
		ErrorMessage: fmt.Sprintf("session '%s' not found", id),
	}
}

// Execute runs one SQL statement in the session's database and records the
// outcome in its history. An absent session yields a not-found result.
func (r *Registry) Execute(ctx context.Context, id, sqlText string) engine.QueryResult {
	s := r.Get(id)
	if s == nil {
		return notFoundResult(id)
	}

	s.execMu.Lock()
	eng := r.handle(s)
	if eng == nil {
		// Deleted between Get and lock acquisition.
		s.execMu.Unlock()
		return notFoundResult(id)
	}
	result := eng.Execute(ctx, sqlText)
	s.execMu.Unlock()

	item := QueryHistoryItem{
		SQL:          sqlText,
		Timestamp:    time.Now(),
		Success:      result.Success,
		ElapsedMs:    result.ElapsedMs,
		RowCount:     result.RowCount,
		ErrorMessage: result.ErrorMessage,
	}

	r.mu.Lock()
	if _, ok := r.sessions[id]; ok {
		s.history = append(s.history, item)
		if len(s.history) > r.maxHistory {
			s.history = s.history[len(s.history)-r.maxHistory:]
		}
	}
	r.mu.Unlock()

	return result
}

// Reset reinitializes the session's database to empty and clears its history.
// Returns false if the session is absent or its storage could not be rebuilt.
func (r *Registry) Reset(id string) bool {
	s := r.Get(id)
	if s == nil {
		return false
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	eng := r.handle(s)
	if eng == nil {
		return false
	}
	if err := eng.Reset(); err != nil {
		slog.Error("Failed to reset session storage", "session_id", id, "error", err)
		return false
	}

	r.mu.Lock()
	s.history = nil
	r.mu.Unlock()
	return true
}

// LoadPreset resets the session and executes the given statements in order,
// bypassing history. Used to materialize tutorial/preset scenarios.
func (r *Registry) LoadPreset(ctx context.Context, id string, statements []string) []engine.QueryResult {
	s := r.Get(id)
	if s == nil {
		return []engine.QueryResult{notFoundResult(id)}
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	eng := r.handle(s)
	if eng == nil {
		return []engine.QueryResult{notFoundResult(id)}
	}
	if err := eng.Reset(); err != nil {
		return []engine.QueryResult{{Success: false, ErrorMessage: err.Error()}}
	}

	r.mu.Lock()
	s.history = nil
	r.mu.Unlock()

	var results []engine.QueryResult
	for _, stmt := range statements {
		if stmt == "" {
			continue
		}
		results = append(results, eng.Execute(ctx, stmt))
	}
	return results
}

// SetMode updates the session's mode and current challenge reference.
// Returns false if the session is absent.
func (r *Registry) SetMode(id string, mode Mode, challengeID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	s.Mode = mode
	s.ChallengeID = challengeID
	return true
}

// Delete releases the session's storage and evicts the entry. Returns false
// if the session is already absent. Storage teardown errors are logged and
// suppressed: cleanup must not fail.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	// Wait for any in-flight statement before releasing the handle.
	s.execMu.Lock()
	r.mu.Lock()
	eng := s.eng
	s.eng = nil
	s.handleState = HandleReleased
	r.mu.Unlock()
	s.execMu.Unlock()

	if eng != nil {
		if err := eng.Close(); err != nil {
			slog.Warn("Failed to close session storage", "session_id", id, "error", err)
		}
	}
	if err := os.RemoveAll(filepath.Join(r.dir, id)); err != nil {
		slog.Warn("Failed to remove session directory", "session_id", id, "error", err)
	}

	slog.Info("Session deleted", "session_id", id)
	return true
}

// History returns a copy of the session's query history, oldest first.
// Returns nil if the session is absent.
func (r *Registry) History(id string) []QueryHistoryItem {
	if r.Get(id) == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	out := make([]QueryHistoryItem, len(s.history))
	copy(out, s.history)
	return out
}

// Exists reports whether a session is registered. Does not stamp activity.
func (r *Registry) Exists(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// Summary returns a metadata snapshot of one session, or nil if absent.
// Does not stamp activity.
func (r *Registry) Summary(id string) *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	out := s.summary()
	return &out
}

// List returns a snapshot of all active sessions.
func (r *Registry) List() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Summary, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.summary())
	}
	return out
}

// Tables returns all tables in the session's database.
// An absent session yields an empty list.
func (r *Registry) Tables(ctx context.Context, id string) []engine.TableInfo {
	s := r.Get(id)
	if s == nil {
		return nil
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	eng := r.handle(s)
	if eng == nil {
		return nil
	}
	tables, err := eng.ListTables(ctx)
	if err != nil {
		slog.Error("Failed to list tables", "session_id", id, "error", err)
		return nil
	}
	return tables
}

// TableSchema returns the schema for one table in the session's database,
// or nil if the session or table is absent.
func (r *Registry) TableSchema(ctx context.Context, id, table string) *engine.TableInfo {
	s := r.Get(id)
	if s == nil {
		return nil
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	eng := r.handle(s)
	if eng == nil {
		return nil
	}
	info, err := eng.TableSchema(ctx, table)
	if err != nil {
		slog.Error("Failed to read table schema", "session_id", id, "table", table, "error", err)
		return nil
	}
	return info
}

// TablePreview returns the first limit rows of a table in the session's
// database. An absent session yields a not-found result.
func (r *Registry) TablePreview(ctx context.Context, id, table string, limit int) engine.QueryResult {
	s := r.Get(id)
	if s == nil {
		return notFoundResult(id)
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	eng := r.handle(s)
	if eng == nil {
		return notFoundResult(id)
	}
	return eng.TablePreview(ctx, table, limit)
}

// Sweep deletes sessions whose last activity exceeds maxAge and returns the
// ids removed. Safe to run concurrently with any session operation.
func (r *Registry) Sweep(maxAge time.Duration) []string {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	var stale []string
	for id, s := range r.sessions {
		if s.LastActivityAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	var removed []string
	for _, id := range stale {
		if r.Delete(id) {
			removed = append(removed, id)
		}
	}
	return removed
}

// CloseAll deletes every session. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Delete(id)
	}
}
