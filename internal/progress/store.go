package progress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/querycamp/internal/challenge"
)

const dateLayout = "2006-01-02"

// Catalog is the narrow content lookup the store needs for
// category-completion badges.
type Catalog interface {
	ListByCategory(cat challenge.Category) []*challenge.Challenge
}

// Store accumulates per-learner progression, keyed by user id. All updates
// are serialized under a single lock so badge check-then-award stays atomic
// per user.
type Store struct {
	mu      sync.Mutex
	users   map[string]*UserProgress
	catalog Catalog
	now     func() time.Time
}

// NewStore creates an empty progression store.
func NewStore(catalog Catalog) *Store {
	return &Store{
		users:   make(map[string]*UserProgress),
		catalog: catalog,
		now:     time.Now,
	}
}

func (s *Store) getLocked(userID string) *UserProgress {
	p, ok := s.users[userID]
	if !ok {
		p = &UserProgress{UserID: userID, CurrentLevel: 1}
		s.users[userID] = p
	}
	return p
}

// Get returns a snapshot of the learner's progress, creating a zeroed record
// on first access.
func (s *Store) Get(userID string) UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getLocked(userID)
	out := *p
	out.CompletedChallenges = append([]string(nil), p.CompletedChallenges...)
	out.EarnedBadges = append([]string(nil), p.EarnedBadges...)
	return out
}

// RecordQuery counts one executed statement toward the learner's lifetime
// total.
func (s *Store) RecordQuery(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getLocked(userID).TotalQueriesExecuted++
}

// RecordSubmission applies a grading verdict to the learner's progress.
// A failing submission only accumulates hint usage. A passing submission on a
// challenge not yet completed earns its reward exactly once: repeat passes of
// a completed challenge change nothing beyond hint accounting.
func (s *Store) RecordSubmission(userID string, sub challenge.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getLocked(userID)

	if sub.Passed && !p.Completed(sub.ChallengeID) {
		p.CompletedChallenges = append(p.CompletedChallenges, sub.ChallengeID)
		p.TotalXP += sub.XPEarned
		p.CurrentLevel = levelFor(p.TotalXP)

		s.updateStreak(p)
		s.checkBadges(p, sub)

		// Badge bonuses count toward the level too.
		p.CurrentLevel = levelFor(p.TotalXP)
	}

	p.HintsUsed += sub.HintsUsed
}

// updateStreak bumps the daily streak. Any activity on a day different from
// the last recorded one extends the streak; gaps are tolerated.
func (s *Store) updateStreak(p *UserProgress) {
	today := s.now().UTC().Format(dateLayout)

	if p.LastActivityDate == "" {
		p.CurrentStreak = 1
	} else if p.LastActivityDate != today {
		p.CurrentStreak++
	}

	p.LastActivityDate = today
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
}

// checkBadges awards every not-yet-earned badge whose predicate holds against
// the updated progress, applying its one-time XP bonus.
func (s *Store) checkBadges(p *UserProgress, sub challenge.Submission) {
	for _, badge := range Badges {
		if p.HasBadge(badge.ID) {
			continue
		}

		var earned bool
		switch badge.Criteria {
		case CriteriaChallengeCount:
			earned = len(p.CompletedChallenges) >= badge.Threshold
		case CriteriaStreak:
			earned = p.CurrentStreak >= badge.Threshold
		case CriteriaQueryCount:
			earned = p.TotalQueriesExecuted >= badge.Threshold
		case CriteriaCategoryComplete:
			earned = s.categoryComplete(p, badge.Category)
		case CriteriaSpeed:
			earned = sub.ElapsedMs <= float64(badge.Threshold)*1000
		}

		if earned {
			p.EarnedBadges = append(p.EarnedBadges, badge.ID)
			p.TotalXP += badge.XPBonus
			slog.Info("Badge earned", "user_id", p.UserID, "badge", badge.ID)
		}
	}
}

func (s *Store) categoryComplete(p *UserProgress, cat challenge.Category) bool {
	if s.catalog == nil {
		return false
	}
	all := s.catalog.ListByCategory(cat)
	if len(all) == 0 {
		return false
	}
	for _, ch := range all {
		if !p.Completed(ch.ID) {
			return false
		}
	}
	return true
}
