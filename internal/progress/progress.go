// Package progress tracks per-learner experience, levels, streaks and badges.
package progress

import (
	"github.com/ashureev/querycamp/internal/challenge"
)

// LevelDefinition maps a level to its minimum experience threshold.
// Thresholds are monotonically increasing.
type LevelDefinition struct {
	Level      int    `json:"level"`
	Name       string `json:"name"`
	XPRequired int    `json:"xp_required"`
}

// Levels is the static level table.
var Levels = []LevelDefinition{
	{1, "SQL Novice", 0},
	{2, "Query Apprentice", 100},
	{3, "Data Explorer", 300},
	{4, "Table Master", 600},
	{5, "Join Journeyman", 1000},
	{6, "Aggregate Adept", 1500},
	{7, "Schema Sage", 2100},
	{8, "Index Innovator", 2800},
	{9, "Database Architect", 3600},
	{10, "SQL Grandmaster", 5000},
}

// BadgeCriteria enumerates badge trigger predicates.
type BadgeCriteria string

const (
	CriteriaChallengeCount   BadgeCriteria = "challenge_count"
	CriteriaStreak           BadgeCriteria = "streak"
	CriteriaQueryCount       BadgeCriteria = "query_count"
	CriteriaCategoryComplete BadgeCriteria = "category_complete"
	CriteriaSpeed            BadgeCriteria = "speed"
)

// Badge is an achievement with a trigger predicate and a one-time XP bonus.
// Threshold is a count for count-style criteria and seconds for speed;
// Category applies only to category-completion badges.
type Badge struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Icon        string             `json:"icon"`
	Criteria    BadgeCriteria      `json:"criteria_type"`
	Threshold   int                `json:"criteria_value,omitempty"`
	Category    challenge.Category `json:"category,omitempty"`
	XPBonus     int                `json:"xp_bonus"`
}

// Badges is the static badge table.
var Badges = []Badge{
	{ID: "first_query", Name: "First Steps", Description: "Execute your first SQL query", Icon: "rocket", Criteria: CriteriaQueryCount, Threshold: 1, XPBonus: 5},
	{ID: "first_challenge", Name: "Challenge Accepted", Description: "Complete your first challenge", Icon: "trophy", Criteria: CriteriaChallengeCount, Threshold: 1, XPBonus: 10},
	{ID: "streak_3", Name: "Consistent", Description: "Maintain a 3-day streak", Icon: "fire", Criteria: CriteriaStreak, Threshold: 3, XPBonus: 15},
	{ID: "streak_7", Name: "Dedicated", Description: "Maintain a 7-day streak", Icon: "fire", Criteria: CriteriaStreak, Threshold: 7, XPBonus: 35},
	{ID: "select_master", Name: "SELECT Master", Description: "Complete all SELECT challenges", Icon: "star", Criteria: CriteriaCategoryComplete, Category: challenge.SelectBasics, XPBonus: 25},
	{ID: "join_expert", Name: "Join Expert", Description: "Complete all JOIN challenges", Icon: "link", Criteria: CriteriaCategoryComplete, Category: challenge.Joins, XPBonus: 25},
	{ID: "speed_demon", Name: "Speed Demon", Description: "Complete a challenge in under 30 seconds", Icon: "bolt", Criteria: CriteriaSpeed, Threshold: 30, XPBonus: 20},
	{ID: "ten_challenges", Name: "Getting Serious", Description: "Complete 10 challenges", Icon: "award", Criteria: CriteriaChallengeCount, Threshold: 10, XPBonus: 50},
}

// UserProgress accumulates a learner's experience and achievements.
// Records are created lazily and never deleted within the process lifetime.
type UserProgress struct {
	UserID               string   `json:"user_id"`
	TotalXP              int      `json:"total_xp"`
	CurrentLevel         int      `json:"current_level"`
	CurrentStreak        int      `json:"current_streak"`
	LongestStreak        int      `json:"longest_streak"`
	LastActivityDate     string   `json:"last_activity_date,omitempty"`
	CompletedChallenges  []string `json:"completed_challenges"`
	EarnedBadges         []string `json:"earned_badges"`
	TotalQueriesExecuted int      `json:"total_queries_executed"`
	HintsUsed            int      `json:"hints_used"`
}

// Completed reports whether the challenge id is in the completed set.
func (p *UserProgress) Completed(challengeID string) bool {
	for _, id := range p.CompletedChallenges {
		if id == challengeID {
			return true
		}
	}
	return false
}

// HasBadge reports whether the badge id has been earned.
func (p *UserProgress) HasBadge(badgeID string) bool {
	for _, id := range p.EarnedBadges {
		if id == badgeID {
			return true
		}
	}
	return false
}

// LevelInfo returns the definition of the learner's current level.
func (p *UserProgress) LevelInfo() LevelDefinition {
	info := Levels[0]
	for _, l := range Levels {
		if p.TotalXP >= l.XPRequired {
			info = l
		}
	}
	return info
}

// XPToNextLevel returns the experience needed for the next level,
// or zero at max level.
func (p *UserProgress) XPToNextLevel() int {
	current := p.LevelInfo()
	for _, l := range Levels {
		if l.Level > current.Level {
			return l.XPRequired - p.TotalXP
		}
	}
	return 0
}

// levelFor returns the highest level whose threshold is within xp.
func levelFor(xp int) int {
	level := 1
	for _, l := range Levels {
		if xp >= l.XPRequired {
			level = l.Level
		}
	}
	return level
}
