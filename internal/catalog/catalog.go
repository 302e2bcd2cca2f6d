// Package catalog holds the static challenge content and its registry.
// Content is immutable after process start; the registry never mutates a
// challenge once loaded.
package catalog

import (
	"strings"

	"github.com/ashureev/querycamp/internal/challenge"
)

const (
	defaultHintPenaltyXP        = 5
	defaultEstimatedTimeMinutes = 5
)

// Listing is the compact challenge shape used in grouped listings.
type Listing struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Difficulty challenge.Difficulty `json:"difficulty"`
	XPReward   int                  `json:"xp_reward"`
}

// CategoryGroup groups challenge listings by category for presentation.
type CategoryGroup struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Challenges  []Listing `json:"challenges"`
}

// Registry is the read-only lookup over all loaded challenges.
type Registry struct {
	byID    map[string]*challenge.Challenge
	ordered []*challenge.Challenge
}

// New loads all content modules into a registry.
func New() *Registry {
	r := &Registry{byID: make(map[string]*challenge.Challenge)}

	for _, group := range [][]challenge.Challenge{
		selectBasicsChallenges,
		joinChallenges,
		aggregationChallenges,
	} {
		for i := range group {
			ch := group[i]
			if ch.HintPenaltyXP == 0 {
				ch.HintPenaltyXP = defaultHintPenaltyXP
			}
			if ch.EstimatedTimeMinutes == 0 {
				ch.EstimatedTimeMinutes = defaultEstimatedTimeMinutes
			}
			stored := ch
			r.byID[stored.ID] = &stored
			r.ordered = append(r.ordered, &stored)
		}
	}
	return r
}

// Get returns a challenge by id, or nil if absent.
func (r *Registry) Get(id string) *challenge.Challenge {
	return r.byID[id]
}

// ListAll returns all challenges in content order.
func (r *Registry) ListAll() []*challenge.Challenge {
	out := make([]*challenge.Challenge, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ListByCategory returns all challenges in a category, in content order.
func (r *Registry) ListByCategory(cat challenge.Category) []*challenge.Challenge {
	var out []*challenge.Challenge
	for _, ch := range r.ordered {
		if ch.Category == cat {
			out = append(out, ch)
		}
	}
	return out
}

// ListByDifficulty returns all challenges of a difficulty, in content order.
func (r *Registry) ListByDifficulty(d challenge.Difficulty) []*challenge.Challenge {
	var out []*challenge.Challenge
	for _, ch := range r.ordered {
		if ch.Difficulty == d {
			out = append(out, ch)
		}
	}
	return out
}

// Categories returns challenge listings grouped by category, ordered by each
// category's first appearance in the content.
func (r *Registry) Categories() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[challenge.Category]int)

	for _, ch := range r.ordered {
		i, ok := index[ch.Category]
		if !ok {
			i = len(groups)
			index[ch.Category] = i
			groups = append(groups, CategoryGroup{
				Name:        string(ch.Category),
				DisplayName: displayName(string(ch.Category)),
			})
		}
		groups[i].Challenges = append(groups[i].Challenges, Listing{
			ID:         ch.ID,
			Title:      ch.Title,
			Difficulty: ch.Difficulty,
			XPReward:   ch.XPReward,
		})
	}
	return groups
}

func displayName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
