package practice

import (
	"github.com/google/uuid"

	"github.com/abhisek/monarch/internal/catalog"
)

// Item is one question of a session, either a quiz question or a scenario.
type Item struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
	Explanation  string // scenarios only
}

func quizItem(q catalog.QuizQuestion) Item {
	return Item{ID: q.ID, Prompt: q.Question, Options: q.Options, CorrectIndex: q.CorrectIndex}
}

func scenarioItem(s catalog.Scenario) Item {
	return Item{
		ID:           s.ID,
		Prompt:       s.Situation,
		Options:      s.Options,
		CorrectIndex: s.CorrectIndex,
		Explanation:  s.Explanation,
	}
}

// Session tallies answers for one composed run.
type Session struct {
	ID         uuid.UUID
	CategoryID string
	Mode       Mode
	Items      []Item

	pos     int
	correct int
}

func newSession(categoryID string, mode Mode, items []Item) *Session {
	return &Session{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Mode:       mode,
		Items:      items,
	}
}

// Current returns the unanswered item, or false once the run is done.
func (s *Session) Current() (Item, bool) {
	if s.Done() {
		return Item{}, false
	}
	return s.Items[s.pos], true
}

// Answer scores choice against the current item and advances. It returns
// false without advancing when the session is already done.
func (s *Session) Answer(choice int) bool {
	item, ok := s.Current()
	if !ok {
		return false
	}
	s.pos++
	if choice == item.CorrectIndex {
		s.correct++
		return true
	}
	return false
}

func (s *Session) Done() bool { return s.pos >= len(s.Items) }

func (s *Session) Total() int { return len(s.Items) }

func (s *Session) Answered() int { return s.pos }

func (s *Session) Correct() int { return s.correct }

// Score is correct/total, and 0 for a session with no items.
func (s *Session) Score() float64 {
	if len(s.Items) == 0 {
		return 0
	}
	return float64(s.correct) / float64(len(s.Items))
}
