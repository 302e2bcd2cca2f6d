package challenge

import (
	"context"
	"strings"
	"testing"

	"github.com/ashureev/querycamp/internal/engine"
	"github.com/ashureev/querycamp/internal/session"
)

func newTestSetup(t *testing.T) (*Grader, string) {
	t.Helper()
	reg, err := session.NewRegistry(session.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	t.Cleanup(reg.CloseAll)

	s, err := reg.Create("")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return NewGrader(reg), s.ID
}

func testChallenge() *Challenge {
	return &Challenge{
		ID:            "test_001",
		Title:         "Find Alice",
		XPReward:      20,
		HintPenaltyXP: 5,
		SetupSQL: []string{
			"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
			"INSERT INTO users (id, name) VALUES (1, 'Alice')",
			"INSERT INTO users (id, name) VALUES (2, 'Bob')",
		},
		Rules: []ValidationRule{
			{Type: RowCount, ExpectedCount: 1},
			{Type: ExactMatch, ExpectedRows: []engine.Row{{"id": 1, "name": "Alice"}}},
		},
	}
}

func TestSetup(t *testing.T) {
	g, sessionID := newTestSetup(t)

	ok, msg := g.Setup(context.Background(), sessionID, testChallenge())
	if !ok {
		t.Fatalf("Expected setup to succeed, got: %s", msg)
	}
	if msg != "Challenge setup complete" {
		t.Errorf("Unexpected setup message: %q", msg)
	}
}

func TestSetup_UnknownSession(t *testing.T) {
	g, _ := newTestSetup(t)

	ok, msg := g.Setup(context.Background(), "ghost", testChallenge())
	if ok {
		t.Fatal("Expected setup to fail for unknown session")
	}
	if !strings.Contains(msg, "Setup failed") {
		t.Errorf("Expected setup failure message, got %q", msg)
	}
}

func TestSetup_BadStatement(t *testing.T) {
	g, sessionID := newTestSetup(t)

	ch := testChallenge()
	ch.SetupSQL = append(ch.SetupSQL, "INSERT INTO missing (x) VALUES (1)")

	ok, msg := g.Setup(context.Background(), sessionID, ch)
	if ok {
		t.Fatal("Expected setup to fail on bad statement")
	}
	if !strings.HasPrefix(msg, "Setup failed: ") {
		t.Errorf("Expected prefixed failure message, got %q", msg)
	}
}

func TestValidate_Pass(t *testing.T) {
	g, sessionID := newTestSetup(t)
	ch := testChallenge()
	ctx := context.Background()

	if ok, msg := g.Setup(ctx, sessionID, ch); !ok {
		t.Fatalf("Setup failed: %s", msg)
	}

	sub := g.Validate(ctx, sessionID, ch, "SELECT id, name FROM users WHERE name = 'Alice'", 0)
	if !sub.Passed {
		t.Fatalf("Expected pass, got feedback: %s", sub.Feedback)
	}
	if sub.XPEarned != 20 {
		t.Errorf("Expected full reward 20, got %d", sub.XPEarned)
	}
	if sub.Feedback != "All validations passed! Great job!" {
		t.Errorf("Unexpected feedback: %q", sub.Feedback)
	}
	if sub.ActualOutput != nil {
		t.Error("Expected no actual output on a pass")
	}
}

func TestValidate_FailShowsOutput(t *testing.T) {
	g, sessionID := newTestSetup(t)
	ch := testChallenge()
	ctx := context.Background()

	g.Setup(ctx, sessionID, ch)

	sub := g.Validate(ctx, sessionID, ch, "SELECT id, name FROM users", 0)
	if sub.Passed {
		t.Fatal("Expected fail for query returning both users")
	}
	if sub.Feedback != "Expected 1 rows, got 2" {
		t.Errorf("Unexpected feedback: %q", sub.Feedback)
	}
	if len(sub.ActualOutput) != 2 {
		t.Errorf("Expected actual output with 2 rows, got %d", len(sub.ActualOutput))
	}
	if sub.XPEarned != 0 {
		t.Errorf("Expected zero XP on fail, got %d", sub.XPEarned)
	}
}

func TestValidate_QueryError(t *testing.T) {
	g, sessionID := newTestSetup(t)
	ch := testChallenge()
	ctx := context.Background()

	g.Setup(ctx, sessionID, ch)

	sub := g.Validate(ctx, sessionID, ch, "SELEC wrong", 0)
	if sub.Passed {
		t.Fatal("Expected fail for invalid SQL")
	}
	if !strings.HasPrefix(sub.Feedback, "Query error: ") {
		t.Errorf("Expected query error feedback, got %q", sub.Feedback)
	}
	if sub.ActualOutput != nil {
		t.Error("Expected no actual output for a query error")
	}
}

func TestRewardFor_HintPenaltyAndFloor(t *testing.T) {
	ch := &Challenge{XPReward: 20, HintPenaltyXP: 5}

	tests := []struct {
		hints int
		want  int
	}{
		{0, 20},
		{1, 15},
		{2, 10},
		{3, 5},
		{4, 5}, // floor: a quarter of the base
		{10, 5},
	}
	for _, tt := range tests {
		if got := rewardFor(ch, tt.hints); got != tt.want {
			t.Errorf("rewardFor(hints=%d) = %d, want %d", tt.hints, got, tt.want)
		}
	}
}

func TestEvaluateRules_ShortCircuitsInOrder(t *testing.T) {
	result := engine.QueryResult{
		Success:  true,
		Rows:     []engine.Row{{"n": int64(1)}},
		Columns:  []string{"n"},
		RowCount: 1,
	}

	rules := []ValidationRule{
		{Type: RowCount, ExpectedCount: 2},
		{Type: ColumnCheck, ExpectedColumns: []string{"other"}},
	}

	passed, feedback := evaluateRules(result, rules)
	if passed {
		t.Fatal("Expected failure")
	}
	// First failing rule wins.
	if feedback != "Expected 2 rows, got 1" {
		t.Errorf("Expected row-count feedback, got %q", feedback)
	}
}

func TestCheckExactMatch_Ordered(t *testing.T) {
	result := engine.QueryResult{
		Success: true,
		Rows: []engine.Row{
			{"name": "Bob"},
			{"name": "Alice"},
		},
		RowCount: 2,
	}
	rule := ValidationRule{
		Type:         ExactMatch,
		OrderMatters: true,
		ExpectedRows: []engine.Row{{"name": "Alice"}, {"name": "Bob"}},
	}

	passed, feedback := checkExactMatch(result, rule)
	if passed {
		t.Fatal("Expected ordered match to fail on swapped rows")
	}
	if feedback != "Row 1 doesn't match expected output" {
		t.Errorf("Unexpected feedback: %q", feedback)
	}

	rule.OrderMatters = false
	if passed, _ := checkExactMatch(result, rule); !passed {
		t.Error("Expected unordered match to pass on swapped rows")
	}
}

func TestCheckContainsRows(t *testing.T) {
	result := engine.QueryResult{
		Success: true,
		Rows: []engine.Row{
			{"id": int64(1), "name": "Alice"},
			{"id": int64(2), "name": "Bob"},
		},
	}

	rule := ValidationRule{Type: ContainsRows, ExpectedRows: []engine.Row{{"id": 2, "name": "Bob"}}}
	if passed, _ := checkContainsRows(result, rule); !passed {
		t.Error("Expected contained row to be found")
	}

	rule.ExpectedRows = []engine.Row{{"id": 3, "name": "Carol"}}
	passed, feedback := checkContainsRows(result, rule)
	if passed {
		t.Error("Expected missing row to fail")
	}
	if feedback != "Missing required row in output" {
		t.Errorf("Unexpected feedback: %q", feedback)
	}
}

func TestCheckColumns(t *testing.T) {
	result := engine.QueryResult{Columns: []string{"ID", "Name"}}

	rule := ValidationRule{Type: ColumnCheck, ExpectedColumns: []string{"id", "name"}}
	if passed, _ := checkColumns(result, rule); !passed {
		t.Error("Expected case-insensitive column match")
	}

	rule.ExpectedColumns = []string{"id", "email"}
	passed, feedback := checkColumns(result, rule)
	if passed {
		t.Error("Expected mismatch")
	}
	if !strings.Contains(feedback, "Missing: [email]") || !strings.Contains(feedback, "Unexpected: [name]") {
		t.Errorf("Unexpected feedback: %q", feedback)
	}
}

func TestRowsEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected engine.Row
		actual   engine.Row
		want     bool
	}{
		{"identical", engine.Row{"a": 1}, engine.Row{"a": 1}, true},
		{"key case folded", engine.Row{"Name": "x"}, engine.Row{"name": "x"}, true},
		{"string case insensitive", engine.Row{"name": "Alice"}, engine.Row{"name": "ALICE"}, true},
		{"int vs int64", engine.Row{"n": 5}, engine.Row{"n": int64(5)}, true},
		{"int vs float within tolerance", engine.Row{"n": 5}, engine.Row{"n": 5.00001}, true},
		{"float outside tolerance", engine.Row{"n": 5.0}, engine.Row{"n": 5.1}, false},
		{"nil matches nil", engine.Row{"n": nil}, engine.Row{"n": nil}, true},
		{"nil vs value", engine.Row{"n": nil}, engine.Row{"n": 1}, false},
		{"extra key", engine.Row{"a": 1}, engine.Row{"a": 1, "b": 2}, false},
		{"missing key", engine.Row{"a": 1, "b": 2}, engine.Row{"a": 1}, false},
		{"string vs number", engine.Row{"n": "5"}, engine.Row{"n": int64(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rowsEqual(tt.expected, tt.actual, false); got != tt.want {
				t.Errorf("rowsEqual(%v, %v) = %v, want %v", tt.expected, tt.actual, got, tt.want)
			}
			// Symmetry.
			if got := rowsEqual(tt.actual, tt.expected, false); got != tt.want {
				t.Errorf("rowsEqual(%v, %v) = %v, want %v (symmetry)", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestValuesEqual_CaseSensitive(t *testing.T) {
	if valuesEqual("Alice", "ALICE", true) {
		t.Error("Expected case-sensitive comparison to fail")
	}
	if !valuesEqual("Alice", "Alice", true) {
		t.Error("Expected identical strings to match")
	}
}
