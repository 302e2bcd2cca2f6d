// Package engine provides the SQL execution boundary for learner workspaces.
//
// An Engine wraps exactly one isolated database instance. It owns no session
// concept: session identity, history, and lifecycle live in the session
// registry, which holds one Engine per session.
package engine

import "context"

// Row is a single result row keyed by column name.
type Row map[string]any

// QueryResult is the uniform outcome of executing one SQL statement.
// Execution failures (bad syntax, runtime errors) are reported in-band via
// Success/ErrorMessage rather than as Go errors, so callers can record and
// surface them as feedback.
type QueryResult struct {
	Success      bool     `json:"success"`
	Rows         []Row    `json:"rows"`
	Columns      []string `json:"columns"`
	RowCount     int      `json:"row_count"`
	ErrorMessage string   `json:"error_message,omitempty"`
	ElapsedMs    float64  `json:"execution_time_ms"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name         string `json:"name"`
	Datatype     string `json:"datatype"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	IsNullable   bool   `json:"is_nullable"`
}

// TableInfo describes a table and its columns.
type TableInfo struct {
	Name    string       `json:"name"`
	SQLText string       `json:"sql_text"`
	Columns []ColumnInfo `json:"columns"`
}

// Engine executes SQL against one isolated database instance.
type Engine interface {
	// Execute runs a single SQL statement and returns a uniform result.
	Execute(ctx context.Context, sql string) QueryResult

	// ListTables returns all user tables with their schemas.
	ListTables(ctx context.Context) ([]TableInfo, error)

	// TableSchema returns the schema for one table, or nil if it does not exist.
	TableSchema(ctx context.Context, name string) (*TableInfo, error)

	// TablePreview returns the first limit rows of a table.
	TablePreview(ctx context.Context, name string, limit int) QueryResult

	// Reset wipes the database back to an empty state.
	Reset() error

	// Close releases the underlying database.
	Close() error
}
