package challenge

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/ashureev/querycamp/internal/engine"
	"github.com/ashureev/querycamp/internal/session"
)

// floatTolerance is the absolute tolerance for floating-point comparison.
const floatTolerance = 1e-4

// Grader sets up challenge scenarios and validates submissions.
type Grader struct {
	sessions *session.Registry
}

// NewGrader creates a grader bound to a session registry.
func NewGrader(sessions *session.Registry) *Grader {
	return &Grader{sessions: sessions}
}

// Setup resets the session and executes the challenge's setup statements in
// order, stopping at the first failure. A failed setup leaves the session
// reset but possibly missing later statements.
func (g *Grader) Setup(ctx context.Context, sessionID string, ch *Challenge) (bool, string) {
	if !g.sessions.Reset(sessionID) {
		return false, fmt.Sprintf("Setup failed: session '%s' not found", sessionID)
	}

	for _, stmt := range ch.SetupSQL {
		result := g.sessions.Execute(ctx, sessionID, stmt)
		if !result.Success {
			return false, "Setup failed: " + result.ErrorMessage
		}
	}

	return true, "Challenge setup complete"
}

// Validate executes the submission and grades it against the challenge's
// rules in declared order, short-circuiting on the first failure.
func (g *Grader) Validate(ctx context.Context, sessionID string, ch *Challenge, submittedSQL string, hintsUsed int) Submission {
	result := g.sessions.Execute(ctx, sessionID, submittedSQL)

	sub := Submission{
		ChallengeID:  ch.ID,
		SessionID:    sessionID,
		SubmittedSQL: submittedSQL,
		SubmittedAt:  time.Now(),
		ElapsedMs:    result.ElapsedMs,
		HintsUsed:    hintsUsed,
	}

	if !result.Success {
		sub.Feedback = "Query error: " + result.ErrorMessage
		return sub
	}

	passed, feedback := evaluateRules(result, ch.Rules)
	sub.Passed = passed
	sub.Feedback = feedback

	if passed {
		sub.XPEarned = rewardFor(ch, hintsUsed)
	} else {
		// Pedagogical: let the learner see what they produced.
		sub.ActualOutput = result.Rows
	}
	return sub
}

// rewardFor computes earned XP: the base reward minus hint penalties, floored
// at a quarter of the base so a passing submission always earns something.
func rewardFor(ch *Challenge, hintsUsed int) int {
	xp := ch.XPReward - hintsUsed*ch.HintPenaltyXP
	if floor := ch.XPReward / 4; xp < floor {
		xp = floor
	}
	return xp
}

// evaluateRules applies rules in declared order and short-circuits on the
// first failure, returning that rule's feedback.
func evaluateRules(result engine.QueryResult, rules []ValidationRule) (bool, string) {
	for _, rule := range rules {
		passed, feedback := checkRule(result, rule)
		if !passed {
			return false, feedback
		}
	}
	return true, "All validations passed! Great job!"
}

func checkRule(result engine.QueryResult, rule ValidationRule) (bool, string) {
	switch rule.Type {
	case RowCount:
		return checkRowCount(result, rule)
	case ExactMatch:
		return checkExactMatch(result, rule)
	case ContainsRows:
		return checkContainsRows(result, rule)
	case ColumnCheck:
		return checkColumns(result, rule)
	}
	return true, "Unknown rule type (skipped)"
}

func checkRowCount(result engine.QueryResult, rule ValidationRule) (bool, string) {
	if result.RowCount != rule.ExpectedCount {
		return false, fmt.Sprintf("Expected %d rows, got %d", rule.ExpectedCount, result.RowCount)
	}
	return true, "Row count matches"
}

func checkExactMatch(result engine.QueryResult, rule ValidationRule) (bool, string) {
	expected := rule.ExpectedRows
	actual := result.Rows

	if len(actual) != len(expected) {
		return false, fmt.Sprintf("Expected %d rows, got %d", len(expected), len(actual))
	}

	if rule.OrderMatters {
		for i := range expected {
			if !rowsEqual(expected[i], actual[i], rule.CaseSensitive) {
				return false, fmt.Sprintf("Row %d doesn't match expected output", i+1)
			}
		}
		return true, "Output matches expected"
	}

	// Order ignored: every expected row must exist somewhere in the output.
	for _, exp := range expected {
		if !containsRow(actual, exp, rule.CaseSensitive) {
			return false, fmt.Sprintf("Missing expected row: %v", exp)
		}
	}
	return true, "Output matches expected"
}

func checkContainsRows(result engine.QueryResult, rule ValidationRule) (bool, string) {
	for _, exp := range rule.ExpectedRows {
		if !containsRow(result.Rows, exp, rule.CaseSensitive) {
			return false, "Missing required row in output"
		}
	}
	return true, "Contains all required rows"
}

func checkColumns(result engine.QueryResult, rule ValidationRule) (bool, string) {
	expected := foldSet(rule.ExpectedColumns)
	actual := foldSet(result.Columns)

	missing := setDiff(expected, actual)
	extra := setDiff(actual, expected)
	if len(missing) == 0 && len(extra) == 0 {
		return true, "Columns match"
	}

	msg := "Column mismatch."
	if len(missing) > 0 {
		msg += fmt.Sprintf(" Missing: %v.", missing)
	}
	if len(extra) > 0 {
		msg += fmt.Sprintf(" Unexpected: %v.", extra)
	}
	return false, msg
}

func foldSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

func setDiff(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func containsRow(rows []engine.Row, want engine.Row, caseSensitive bool) bool {
	for _, row := range rows {
		if rowsEqual(want, row, caseSensitive) {
			return true
		}
	}
	return false
}

// rowsEqual reports whether two rows match: after case-folding all keys they
// must share the same key set, and every value must match.
func rowsEqual(expected, actual engine.Row, caseSensitive bool) bool {
	expNorm := foldKeys(expected)
	actNorm := foldKeys(actual)

	if len(expNorm) != len(actNorm) {
		return false
	}
	for key, expVal := range expNorm {
		actVal, ok := actNorm[key]
		if !ok {
			return false
		}
		if !valuesEqual(expVal, actVal, caseSensitive) {
			return false
		}
	}
	return true
}

func foldKeys(row engine.Row) engine.Row {
	out := make(engine.Row, len(row))
	for k, v := range row {
		out[strings.ToLower(k)] = v
	}
	return out
}

// valuesEqual compares two cell values. Strings compare case-insensitively
// unless caseSensitive is set; numbers compare across integer and float
// representations, with a fixed absolute tolerance when floats are involved.
func valuesEqual(expected, actual any, caseSensitive bool) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	if es, ok := expected.(string); ok {
		as, ok := actual.(string)
		if !ok {
			return false
		}
		if caseSensitive {
			return es == as
		}
		return strings.EqualFold(es, as)
	}

	ef, eFloat, eNum := toNumber(expected)
	af, aFloat, aNum := toNumber(actual)
	if eNum && aNum {
		if eFloat || aFloat {
			return math.Abs(ef-af) <= floatTolerance
		}
		return ef == af
	}

	return reflect.DeepEqual(expected, actual)
}

// toNumber converts a cell value to float64, reporting whether it was a
// floating-point type and whether it was numeric at all.
func toNumber(v any) (f float64, isFloat bool, ok bool) {
	switch n := v.(type) {
	case int:
		return float64(n), false, true
	case int32:
		return float64(n), false, true
	case int64:
		return float64(n), false, true
	case uint:
		return float64(n), false, true
	case uint32:
		return float64(n), false, true
	case uint64:
		return float64(n), false, true
	case float32:
		return float64(n), true, true
	case float64:
		return n, true, true
	}
	return 0, false, false
}
