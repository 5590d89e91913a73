package progress

import (
	"slices"
	"time"

	"github.com/abhisek/monarch/internal/practice"
)

// State is the learner's persisted progress. Every mutation is a
// deterministic fold over State; GraceScore is always derived, never set.
type State struct {
	CompletedLessonIDs   map[string]bool
	PracticeSessionDates []time.Time
	Metrics              Metrics
	GraceScore           int
	CurrentStreak        int
	LastStreakDate       time.Time // zero until the first practice session
	Profile              UserProfile
}

func defaultState() State {
	return State{
		CompletedLessonIDs: make(map[string]bool),
		Metrics:            zeroMetrics(),
	}
}

func (s State) clone() State {
	out := s
	out.CompletedLessonIDs = make(map[string]bool, len(s.CompletedLessonIDs))
	for id := range s.CompletedLessonIDs {
		out.CompletedLessonIDs[id] = true
	}
	out.PracticeSessionDates = slices.Clone(s.PracticeSessionDates)
	out.Metrics = s.Metrics.clone()
	out.Profile = s.Profile.clone()
	return out
}

func (s *State) recalculate() {
	s.GraceScore = GraceScore(s.Metrics, len(s.CompletedLessonIDs))
}

func (s *State) completeLesson(id string) {
	if id != "" {
		s.CompletedLessonIDs[id] = true
	}
	s.recalculate()
}

// recordSession applies one practice result at time now.
func (s *State) recordSession(cal Calendar, now time.Time, score float64, categoryID string, mode practice.Mode) {
	s.PracticeSessionDates = append(s.PracticeSessionDates, now)
	s.updateStreak(cal, now)
	s.Metrics.applyWeight(categoryID, score*mode.Weight())
	s.recalculate()
}

// updateStreak runs once per recorded session: first session sets 1, the
// next calendar day increments, a gap of more than one day resets to 1 and
// the same day leaves the streak alone.
func (s *State) updateStreak(cal Calendar, now time.Time) {
	today := cal.StartOfDay(now)
	if s.LastStreakDate.IsZero() {
		s.CurrentStreak = 1
	} else {
		switch diff := cal.DaysBetween(s.LastStreakDate, today); {
		case diff == 1:
			s.CurrentStreak++
		case diff > 1:
			s.CurrentStreak = 1
		}
	}
	// A session was recorded today, so a stored zero streak is stale.
	if s.CurrentStreak < 1 {
		s.CurrentStreak = 1
	}
	s.LastStreakDate = today
}
