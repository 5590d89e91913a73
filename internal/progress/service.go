// Package progress owns a learner's persisted progress: completed lessons,
// practice history, skill metrics, the derived grace score, the daily
// streak and the learner profile.
package progress

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/monarch/internal/practice"
	"github.com/abhisek/monarch/internal/store"
)

// alwaysUnlocked categories are open before any lesson is completed.
var alwaysUnlocked = map[string]bool{
	"dining": true,
	"social": true,
	"public": true,
}

// Options configures a Service. The zero value uses the wall clock, the
// local time zone with Sunday-first weeks and a no-op logger.
type Options struct {
	Now      func() time.Time
	Calendar Calendar
	Logger   *zap.Logger
}

// Service is the single owner of a learner's State. All methods are safe
// for concurrent use; mutations are serialized under one lock and persisted
// before they return.
type Service struct {
	kv  store.Store
	now func() time.Time
	cal Calendar
	log *zap.Logger

	// pubMu is taken before mu and held through publish so subscribers
	// observe events in mutation order.
	pubMu sync.Mutex
	mu    sync.Mutex
	state State

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

// NewService loads state from kv. Missing or malformed fields fall back to
// their defaults independently; loading never fails.
func NewService(ctx context.Context, kv store.Store, opts Options) *Service {
	s := &Service{
		kv:  kv,
		now: opts.Now,
		cal: opts.Calendar,
		log: opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.state = loadState(ctx, kv, s.log)
	s.log.Debug("progress loaded", zap.String("state", s.state.describe()))
	return s
}

// persistLocked writes the full state. The caller holds s.mu. Failures are
// logged against the event that will carry them.
func (s *Service) persistLocked(ctx context.Context, eventID uuid.UUID) error {
	err := saveState(ctx, s.kv, s.state)
	var pe *PersistError
	if errors.As(err, &pe) {
		for _, key := range pe.Keys {
			s.log.Warn("progress not persisted; keeping in-memory state",
				zap.Stringer("event_id", eventID), zap.String("key", key), zap.Error(pe.Err))
		}
	}
	return err
}

// mutate applies fn under the lock, persists, then publishes an event of
// the given kind. The returned error is nil or a *PersistError.
func (s *Service) mutate(ctx context.Context, kind Kind, mode practice.Mode, fn func(st *State, now time.Time)) error {
	now := s.now()
	id := uuid.New()

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	fn(&s.state, now)
	err := s.persistLocked(ctx, id)
	ev := Event{
		ID:         id,
		Kind:       kind,
		At:         now,
		Mode:       mode,
		GraceScore: s.state.GraceScore,
		Streak:     s.state.CurrentStreak,
		PersistErr: err,
	}
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// MarkLessonCompleted adds id to the completed set and recalculates the
// grace score. Re-completing a lesson leaves the set unchanged. Unknown ids
// are accepted; an empty id is ignored but still publishes an event.
func (s *Service) MarkLessonCompleted(ctx context.Context, id string) error {
	return s.mutate(ctx, KindLessonCompleted, "", func(st *State, _ time.Time) {
		st.completeLesson(id)
	})
}

// IsLessonCompleted reports whether id has been completed.
func (s *Service) IsLessonCompleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CompletedLessonIDs[id]
}

// IsCategoryUnlocked reports whether categoryID is open. dining, social and
// public are always open; any other id opens once a lesson is completed.
func (s *Service) IsCategoryUnlocked(categoryID string) bool {
	if alwaysUnlocked[categoryID] {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.CompletedLessonIDs) > 0
}

// RecordPracticeSession credits a finished session. score is the fraction
// of correct answers and is expected in [0, 1]; it is not validated.
func (s *Service) RecordPracticeSession(ctx context.Context, score float64, categoryID string, mode practice.Mode) error {
	return s.mutate(ctx, KindPracticeRecorded, mode, func(st *State, now time.Time) {
		st.recordSession(s.cal, now, score, categoryID, mode)
	})
}

// SaveProfile replaces the learner profile.
func (s *Service) SaveProfile(ctx context.Context, p UserProfile) error {
	return s.mutate(ctx, KindProfileSaved, "", func(st *State, _ time.Time) {
		st.Profile = p.normalized()
	})
}

// Profile returns a copy of the learner profile.
func (s *Service) Profile() UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile.clone()
}

// Reset deletes every persisted progress key and restores defaults. The
// in-memory state is reset even if the delete fails.
func (s *Service) Reset(ctx context.Context) error {
	now := s.now()
	id := uuid.New()

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	var err error
	if derr := s.kv.Delete(ctx, Keys()...); derr != nil {
		err = &PersistError{Keys: Keys(), Err: derr}
		s.log.Warn("progress not cleared from store",
			zap.Stringer("event_id", id), zap.Error(derr))
	}
	s.state = defaultState()
	ev := Event{ID: id, Kind: KindReset, At: now, PersistErr: err}
	s.mu.Unlock()

	s.publish(ev)
	return err
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// CompletedLessonsCount is the size of the completed set.
func (s *Service) CompletedLessonsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.CompletedLessonIDs)
}

// Metrics returns a copy of the skill metrics.
func (s *Service) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Metrics.clone()
}

// MetricValue pairs a skill with its value.
type MetricValue struct {
	Skill Skill
	Value float64
}

// OrderedMetrics returns the metrics in Poise, Composure, Elegance,
// Consistency order.
func (s *Service) OrderedMetrics() []MetricValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MetricValue, 0, 4)
	for _, sk := range AllSkills() {
		out = append(out, MetricValue{Skill: sk, Value: s.state.Metrics[sk]})
	}
	return out
}

func (s *Service) GraceScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GraceScore
}

func (s *Service) CurrentStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentStreak
}

// LastStreakDate is zero until the first practice session.
func (s *Service) LastStreakDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastStreakDate
}

// PracticeSessionDates returns a copy of the session history in call order.
func (s *Service) PracticeSessionDates() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Time, len(s.state.PracticeSessionDates))
	copy(out, s.state.PracticeSessionDates)
	return out
}
