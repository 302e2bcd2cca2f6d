package catalog

import (
	"testing"

	"github.com/ashureev/querycamp/internal/challenge"
)

func TestNew_LoadsAllContent(t *testing.T) {
	r := New()

	all := r.ListAll()
	if len(all) == 0 {
		t.Fatal("Expected challenges to be loaded")
	}

	seen := make(map[string]bool)
	for _, ch := range all {
		if ch.ID == "" {
			t.Error("Expected every challenge to have an id")
		}
		if seen[ch.ID] {
			t.Errorf("Duplicate challenge id %q", ch.ID)
		}
		seen[ch.ID] = true

		if ch.XPReward <= 0 {
			t.Errorf("Challenge %s has no XP reward", ch.ID)
		}
		if len(ch.SetupSQL) == 0 {
			t.Errorf("Challenge %s has no setup SQL", ch.ID)
		}
		if len(ch.Rules) == 0 {
			t.Errorf("Challenge %s has no validation rules", ch.ID)
		}
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	r := New()

	for _, ch := range r.ListAll() {
		if ch.HintPenaltyXP <= 0 {
			t.Errorf("Challenge %s missing hint penalty default", ch.ID)
		}
		if ch.EstimatedTimeMinutes <= 0 {
			t.Errorf("Challenge %s missing estimated time default", ch.ID)
		}
	}
}

func TestGet(t *testing.T) {
	r := New()

	ch := r.Get("select_001")
	if ch == nil {
		t.Fatal("Expected select_001 to exist")
	}
	if ch.Category != challenge.SelectBasics {
		t.Errorf("Expected select_basics category, got %v", ch.Category)
	}

	if r.Get("nope") != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestListByCategory(t *testing.T) {
	r := New()

	joins := r.ListByCategory(challenge.Joins)
	if len(joins) == 0 {
		t.Fatal("Expected join challenges")
	}
	for _, ch := range joins {
		if ch.Category != challenge.Joins {
			t.Errorf("Challenge %s has category %v", ch.ID, ch.Category)
		}
	}
}

func TestListByDifficulty(t *testing.T) {
	r := New()

	for _, ch := range r.ListByDifficulty(challenge.Beginner) {
		if ch.Difficulty != challenge.Beginner {
			t.Errorf("Challenge %s has difficulty %v", ch.ID, ch.Difficulty)
		}
	}
}

func TestCategories_GroupedInContentOrder(t *testing.T) {
	r := New()

	groups := r.Categories()
	if len(groups) < 3 {
		t.Fatalf("Expected at least 3 category groups, got %d", len(groups))
	}
	if groups[0].Name != string(challenge.SelectBasics) {
		t.Errorf("Expected select_basics first, got %s", groups[0].Name)
	}

	total := 0
	for _, g := range groups {
		if g.DisplayName == "" {
			t.Errorf("Group %s missing display name", g.Name)
		}
		total += len(g.Challenges)
	}
	if total != len(r.ListAll()) {
		t.Errorf("Expected %d challenges across groups, got %d", len(r.ListAll()), total)
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName("select_basics"); got != "Select Basics" {
		t.Errorf("Expected 'Select Basics', got %q", got)
	}
	if got := displayName("joins"); got != "Joins" {
		t.Errorf("Expected 'Joins', got %q", got)
	}
}
