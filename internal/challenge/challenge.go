// Package challenge defines SQL challenges and grades submissions against
// their validation rules.
package challenge

import (
	"time"

	"github.com/ashureev/querycamp/internal/engine"
)

// Difficulty tiers a challenge for presentation and pacing.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// Category groups challenges by topic.
type Category string

const (
	SelectBasics Category = "select_basics"
	Filtering    Category = "filtering"
	Joins        Category = "joins"
	Aggregation  Category = "aggregation"
	DDL          Category = "ddl"
	DML          Category = "dml"
)

// ValidationType enumerates the closed set of rule kinds.
type ValidationType string

const (
	ExactMatch   ValidationType = "exact_match"
	RowCount     ValidationType = "row_count"
	ContainsRows ValidationType = "contains_rows"
	ColumnCheck  ValidationType = "column_check"
)

// ValidationRule is one automated check applied to a submission's result.
// Exactly one expected field is meaningful per Type.
type ValidationRule struct {
	Type ValidationType

	// ExpectedCount is used by RowCount rules.
	ExpectedCount int

	// ExpectedRows is used by ExactMatch and ContainsRows rules.
	ExpectedRows []engine.Row

	// ExpectedColumns is used by ColumnCheck rules.
	ExpectedColumns []string

	// OrderMatters makes ExactMatch compare rows positionally.
	OrderMatters bool

	// CaseSensitive disables case folding for string value comparison.
	CaseSensitive bool
}

// Challenge is an immutable scripted exercise: setup data, a task, and
// automated grading rules. Supplied by the content catalog.
type Challenge struct {
	ID          string
	Title       string
	Description string // Markdown
	Category    Category
	Difficulty  Difficulty
	XPReward    int

	// SetupSQL is executed in order to materialize the scenario.
	SetupSQL []string

	// Rules are evaluated in declared order; the first failure wins.
	Rules []ValidationRule

	// ExpectedQuery is an optional reference solution.
	ExpectedQuery string

	// Hints are progressively revealed; each costs HintPenaltyXP.
	Hints         []string
	HintPenaltyXP int

	EstimatedTimeMinutes int
	Prerequisites        []string
	Tags                 []string

	// ConceptExplanation is shown after completion.
	ConceptExplanation string
}

// Submission is the outcome of grading one query against a challenge.
// ActualOutput is populated only on failure so a passing answer is not
// leaked back to the learner.
type Submission struct {
	ChallengeID  string       `json:"challenge_id"`
	SessionID    string       `json:"session_id"`
	SubmittedSQL string       `json:"submitted_sql"`
	SubmittedAt  time.Time    `json:"submitted_at"`
	Passed       bool         `json:"passed"`
	ElapsedMs    float64      `json:"execution_time_ms"`
	HintsUsed    int          `json:"hints_used"`
	XPEarned     int          `json:"xp_earned"`
	Feedback     string       `json:"feedback"`
	ActualOutput []engine.Row `json:"actual_output,omitempty"`
}
