package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteEngine implements Engine on top of a single SQLite database file.
// Each engine owns exactly one file; isolation between learners is the file
// boundary. The connection pool is capped at one connection because the
// workspace is single-writer.
type SQLiteEngine struct {
	path string
	db   *sql.DB
}

// NewSQLiteEngine opens (or creates) the database file at path.
// If nuke is true any existing file is deleted first.
func NewSQLiteEngine(path string, nuke bool) (*SQLiteEngine, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	if nuke {
		removeDatabaseFiles(path)
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteEngine{path: path, db: db}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single-writer workspace: one connection keeps statement ordering strict.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func removeDatabaseFiles(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
}

// returnsRows reports whether the statement produces a result set.
func returnsRows(stmt string) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "select", "values", "with", "pragma", "explain":
		return true
	}
	return false
}

// Execute runs a single SQL statement and returns a uniform result.
func (e *SQLiteEngine) Execute(ctx context.Context, sqlText string) QueryResult {
	start := time.Now()
	stmt := strings.TrimSpace(sqlText)

	if stmt == "" {
		return QueryResult{
			Success:      false,
			ErrorMessage: "empty statement",
			ElapsedMs:    elapsedMs(start),
		}
	}

	if returnsRows(stmt) {
		return e.query(ctx, stmt, start)
	}
	return e.exec(ctx, stmt, start)
}

func (e *SQLiteEngine) exec(ctx context.Context, stmt string, start time.Time) QueryResult {
	res, err := e.db.ExecContext(ctx, stmt)
	if isConflictError(err) {
		// The WAL checkpointer can briefly hold the lock. One retry.
		time.Sleep(50 * time.Millisecond)
		res, err = e.db.ExecContext(ctx, stmt)
	}
	if err != nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: err.Error(),
			ElapsedMs:    elapsedMs(start),
		}
	}

	// DDL statements report zero affected rows; that is fine.
	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}
	return QueryResult{Success: true, RowCount: int(affected), ElapsedMs: elapsedMs(start)}
}

func (e *SQLiteEngine) query(ctx context.Context, stmt string, start time.Time) QueryResult {
	rows, err := e.db.QueryContext(ctx, stmt)
	if isConflictError(err) {
		time.Sleep(50 * time.Millisecond)
		rows, err = e.db.QueryContext(ctx, stmt)
	}
	if err != nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: err.Error(),
			ElapsedMs:    elapsedMs(start),
		}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: err.Error(),
			ElapsedMs:    elapsedMs(start),
		}
	}

	var out []Row
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{
				Success:      false,
				ErrorMessage: err.Error(),
				ElapsedMs:    elapsedMs(start),
			}
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: err.Error(),
			ElapsedMs:    elapsedMs(start),
		}
	}

	return QueryResult{
		Success:   true,
		Rows:      out,
		Columns:   columns,
		RowCount:  len(out),
		ElapsedMs: elapsedMs(start),
	}
}

// normalizeValue maps driver values onto the stable set
// string/int64/float64/bool/nil used across the result contract.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// ListTables returns all user tables with their schemas.
func (e *SQLiteEngine) ListTables(ctx context.Context) ([]TableInfo, error) {
	query := `
		SELECT name, COALESCE(sql, '')
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.SQLText); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	for i := range tables {
		cols, err := e.tableColumns(ctx, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = cols
	}
	return tables, nil
}

func (e *SQLiteEngine) tableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("table_info for %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid      int
			name     string
			datatype string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &datatype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		cols = append(cols, ColumnInfo{
			Name:         name,
			Datatype:     datatype,
			IsPrimaryKey: pk > 0,
			IsNullable:   notNull == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return cols, nil
}

// TableSchema returns the schema for one table, or nil if it does not exist.
func (e *SQLiteEngine) TableSchema(ctx context.Context, name string) (*TableInfo, error) {
	query := `
		SELECT name, COALESCE(sql, '')
		FROM sqlite_master
		WHERE type = 'table' AND name = ?`

	var t TableInfo
	err := e.db.QueryRowContext(ctx, query, name).Scan(&t.Name, &t.SQLText)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup table %s: %w", name, err)
	}

	cols, err := e.tableColumns(ctx, t.Name)
	if err != nil {
		return nil, err
	}
	t.Columns = cols
	return &t, nil
}

// TablePreview returns the first limit rows of a table.
func (e *SQLiteEngine) TablePreview(ctx context.Context, name string, limit int) QueryResult {
	start := time.Now()

	schema, err := e.TableSchema(ctx, name)
	if err != nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: err.Error(),
			ElapsedMs:    elapsedMs(start),
		}
	}
	if schema == nil {
		return QueryResult{
			Success:      false,
			ErrorMessage: fmt.Sprintf("table '%s' not found", name),
			ElapsedMs:    elapsedMs(start),
		}
	}
	if limit <= 0 {
		limit = 10
	}

	return e.query(ctx, fmt.Sprintf("SELECT * FROM %q LIMIT %d", schema.Name, limit), start)
}

// Reset wipes the database back to an empty state by deleting the file
// and reopening it.
func (e *SQLiteEngine) Reset() error {
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("close database for reset: %w", err)
	}

	removeDatabaseFiles(e.path)

	db, err := openSQLite(e.path)
	if err != nil {
		return fmt.Errorf("reopen database after reset: %w", err)
	}
	e.db = db
	return nil
}

// Close releases the underlying database.
func (e *SQLiteEngine) Close() error {
	return e.db.Close()
}
