package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/monarch/internal/practice"
)

// Kind identifies the mutation that produced an Event.
type Kind string

const (
	KindLessonCompleted  Kind = "lesson-completed"
	KindPracticeRecorded Kind = "practice-recorded"
	KindProfileSaved     Kind = "profile-saved"
	KindReset            Kind = "reset"
)

// Event is published after every mutation.
type Event struct {
	ID   uuid.UUID
	Kind Kind
	At   time.Time

	// Mode is set for practice-recorded events.
	Mode       practice.Mode
	GraceScore int
	Streak     int

	// PersistErr is non-nil when the mutation could not be written.
	PersistErr error
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive every subsequent Event. Handlers run
// synchronously on the mutating goroutine, after the state lock has been
// released, in subscription order. Events arrive in the order their
// mutations were applied, even under concurrent use. Handlers may call the
// read methods but must not mutate the Service. The returned func removes fn.
func (s *Service) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) publish(ev Event) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
