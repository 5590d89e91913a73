package progress

import (
	"time"

	"github.com/abhisek/monarch/internal/catalog"
)

// DayActivity is one cell of the weekly activity strip.
type DayActivity struct {
	Label   string
	Weekday int // 1=Sunday..7=Saturday
	Active  bool
}

// weekStrip is the display order of the weekly activity strip.
var weekStrip = []struct {
	weekday int
	label   string
}{
	{2, "Mon"}, {3, "Tue"}, {4, "Wed"}, {5, "Thu"}, {6, "Fri"}, {7, "Sat"}, {1, "Sun"},
}

// HasPracticeSession reports whether a session recorded in the current
// calendar week fell on weekday (1=Sunday..7=Saturday).
func (s *Service) HasPracticeSession(weekday int) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasSessionLocked(s.cal.StartOfWeek(now), weekday)
}

func (s *Service) hasSessionLocked(weekStart time.Time, weekday int) bool {
	for _, d := range s.state.PracticeSessionDates {
		if !d.Before(weekStart) && s.cal.Weekday(d) == weekday {
			return true
		}
	}
	return false
}

// SessionsThisWeek counts sessions recorded since the start of the current
// calendar week.
func (s *Service) SessionsThisWeek() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.cal.StartOfWeek(now)
	n := 0
	for _, d := range s.state.PracticeSessionDates {
		if !d.Before(start) {
			n++
		}
	}
	return n
}

// WeeklyActivity returns Monday through Sunday of the current week with
// each day marked active if it had a practice session.
func (s *Service) WeeklyActivity() []DayActivity {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.cal.StartOfWeek(now)
	out := make([]DayActivity, 0, len(weekStrip))
	for _, d := range weekStrip {
		out = append(out, DayActivity{
			Label:   d.label,
			Weekday: d.weekday,
			Active:  s.hasSessionLocked(start, d.weekday),
		})
	}
	return out
}

// CompletedCount is the number of c's lessons that have been completed.
func (s *Service) CompletedCount(c catalog.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range c.Lessons {
		if s.state.CompletedLessonIDs[l.ID] {
			n++
		}
	}
	return n
}
