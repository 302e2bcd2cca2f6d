package engine

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestEngine(t *testing.T) *SQLiteEngine {
	t.Helper()
	eng, err := NewSQLiteEngine(filepath.Join(t.TempDir(), "db.sqlite"), true)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestExecute_CreateInsertSelect(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"INSERT INTO users (id, name) VALUES (1, 'Alice')",
		"INSERT INTO users (id, name) VALUES (2, 'Bob')",
	} {
		result := eng.Execute(ctx, stmt)
		if !result.Success {
			t.Fatalf("Expected success for %q, got error: %s", stmt, result.ErrorMessage)
		}
	}

	result := eng.Execute(ctx, "SELECT id, name FROM users ORDER BY id")
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.ErrorMessage)
	}
	if result.RowCount != 2 {
		t.Errorf("Expected 2 rows, got %d", result.RowCount)
	}
	if len(result.Columns) != 2 || result.Columns[0] != "id" || result.Columns[1] != "name" {
		t.Errorf("Expected columns [id name], got %v", result.Columns)
	}
	if result.Rows[0]["name"] != "Alice" {
		t.Errorf("Expected first row name Alice, got %v", result.Rows[0]["name"])
	}
}

func TestExecute_ErrorIsInBand(t *testing.T) {
	eng := newTestEngine(t)

	result := eng.Execute(context.Background(), "SELECT * FROM missing_table")
	if result.Success {
		t.Error("Expected failure for query against missing table")
	}
	if result.ErrorMessage == "" {
		t.Error("Expected a non-empty error message")
	}
}

func TestExecute_DMLReportsAffectedRows(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.Execute(ctx, "CREATE TABLE t (id INTEGER)")
	eng.Execute(ctx, "INSERT INTO t (id) VALUES (1)")
	eng.Execute(ctx, "INSERT INTO t (id) VALUES (2)")

	result := eng.Execute(ctx, "UPDATE t SET id = id + 10")
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.ErrorMessage)
	}
	if result.RowCount != 2 {
		t.Errorf("Expected 2 affected rows, got %d", result.RowCount)
	}
	if len(result.Rows) != 0 {
		t.Errorf("Expected no result rows for UPDATE, got %d", len(result.Rows))
	}
}

func TestListTables(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.Execute(ctx, "CREATE TABLE aaa (id INTEGER PRIMARY KEY, note TEXT)")
	eng.Execute(ctx, "CREATE TABLE bbb (id INTEGER)")

	tables, err := eng.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(tables))
	}

	var aaa *TableInfo
	for i := range tables {
		if tables[i].Name == "aaa" {
			aaa = &tables[i]
		}
	}
	if aaa == nil {
		t.Fatal("Expected table aaa in listing")
	}
	if len(aaa.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(aaa.Columns))
	}
	if !aaa.Columns[0].IsPrimaryKey {
		t.Error("Expected id to be primary key")
	}
}

func TestTableSchema_Missing(t *testing.T) {
	eng := newTestEngine(t)

	info, err := eng.TableSchema(context.Background(), "nope")
	if err != nil {
		t.Fatalf("TableSchema failed: %v", err)
	}
	if info != nil {
		t.Errorf("Expected nil info for missing table, got %v", info)
	}
}

func TestTablePreview(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.Execute(ctx, "CREATE TABLE nums (n INTEGER)")
	for i := 0; i < 20; i++ {
		eng.Execute(ctx, "INSERT INTO nums (n) VALUES (1)")
	}

	result := eng.TablePreview(ctx, "nums", 0)
	if !result.Success {
		t.Fatalf("Expected success, got error: %s", result.ErrorMessage)
	}
	if result.RowCount != 10 {
		t.Errorf("Expected default preview of 10 rows, got %d", result.RowCount)
	}

	result = eng.TablePreview(ctx, "nums", 5)
	if result.RowCount != 5 {
		t.Errorf("Expected 5 rows, got %d", result.RowCount)
	}

	result = eng.TablePreview(ctx, "missing", 5)
	if result.Success {
		t.Error("Expected failure for missing table")
	}
}

func TestReset_WipesData(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	eng.Execute(ctx, "CREATE TABLE t (id INTEGER)")
	if err := eng.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	tables, err := eng.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("Expected empty database after reset, got %d tables", len(tables))
	}

	// Engine stays usable after reset.
	result := eng.Execute(ctx, "CREATE TABLE fresh (id INTEGER)")
	if !result.Success {
		t.Errorf("Expected engine usable after reset, got error: %s", result.ErrorMessage)
	}
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"  select * from t", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"PRAGMA table_info(t)", true},
		{"EXPLAIN SELECT 1", true},
		{"VALUES (1)", true},
		{"INSERT INTO t VALUES (1)", false},
		{"CREATE TABLE t (id INTEGER)", false},
		{"DROP TABLE t", false},
	}

	for _, tt := range tests {
		if got := returnsRows(tt.sql); got != tt.want {
			t.Errorf("returnsRows(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
