package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/monarch/internal/store"
)

// Persisted keys. Each field is stored and defaulted independently.
const (
	KeyCompletedLessons     = "completedLessons"
	KeyPracticeSessionDates = "practiceSessionDates"
	KeyMetrics              = "metrics"
	KeyProfile              = "userProfile"
	KeyLastStreakDate       = "lastStreakDate"
	KeyCurrentStreak        = "currentStreak"
	KeyTotalScore           = "totalScore"
)

// Keys lists every key owned by the progress store.
func Keys() []string {
	return []string{
		KeyCompletedLessons,
		KeyPracticeSessionDates,
		KeyMetrics,
		KeyProfile,
		KeyLastStreakDate,
		KeyCurrentStreak,
		KeyTotalScore,
	}
}

type encodedField struct {
	key   string
	value any
}

func encodeFields(s State) []encodedField {
	lessons := make([]string, 0, len(s.CompletedLessonIDs))
	for id := range s.CompletedLessonIDs {
		lessons = append(lessons, id)
	}
	sort.Strings(lessons)

	metrics := make(map[string]float64, len(s.Metrics))
	for _, sk := range AllSkills() {
		metrics[string(sk)] = s.Metrics[sk]
	}

	var lastStreak *time.Time
	if !s.LastStreakDate.IsZero() {
		t := s.LastStreakDate
		lastStreak = &t
	}

	dates := s.PracticeSessionDates
	if dates == nil {
		dates = []time.Time{}
	}

	return []encodedField{
		{KeyCompletedLessons, lessons},
		{KeyPracticeSessionDates, dates},
		{KeyMetrics, metrics},
		{KeyProfile, s.Profile},
		{KeyLastStreakDate, lastStreak},
		{KeyCurrentStreak, s.CurrentStreak},
		{KeyTotalScore, s.GraceScore},
	}
}

// saveState writes every field. It attempts all keys even when one fails.
func saveState(ctx context.Context, kv store.Store, s State) error {
	var (
		failed []string
		errs   []error
	)
	for _, f := range encodeFields(s) {
		b, err := json.Marshal(f.value)
		if err == nil {
			err = kv.Save(ctx, f.key, b)
		}
		if err != nil {
			failed = append(failed, f.key)
			errs = append(errs, err)
		}
	}
	if len(failed) > 0 {
		return &PersistError{Keys: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// loadField decodes key into dst. It reports false when the key is absent
// or unreadable, leaving dst untouched so the caller keeps its default.
func loadField(ctx context.Context, kv store.Store, log *zap.Logger, key string, dst any) bool {
	raw, err := kv.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("progress field unreadable, using default", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("progress field malformed, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// loadState rebuilds State from kv, defaulting each field on its own.
func loadState(ctx context.Context, kv store.Store, log *zap.Logger) State {
	s := defaultState()

	var lessons []string
	if loadField(ctx, kv, log, KeyCompletedLessons, &lessons) {
		for _, id := range lessons {
			if id != "" {
				s.CompletedLessonIDs[id] = true
			}
		}
	}

	var dates []time.Time
	if loadField(ctx, kv, log, KeyPracticeSessionDates, &dates) {
		s.PracticeSessionDates = dates
	}

	var metrics map[string]float64
	if loadField(ctx, kv, log, KeyMetrics, &metrics) {
		for _, sk := range AllSkills() {
			s.Metrics[sk] = clampUnit(metrics[string(sk)])
		}
	}

	var profile UserProfile
	if loadField(ctx, kv, log, KeyProfile, &profile) {
		s.Profile = profile.normalized()
	}

	var lastStreak *time.Time
	if loadField(ctx, kv, log, KeyLastStreakDate, &lastStreak) && lastStreak != nil {
		s.LastStreakDate = *lastStreak
	}

	var streak int
	if loadField(ctx, kv, log, KeyCurrentStreak, &streak) && streak > 0 {
		s.CurrentStreak = streak
	}

	// totalScore is written for external readers but always re-derived here
	// so it matches the metrics and lessons actually loaded.
	s.recalculate()
	var cached int
	if loadField(ctx, kv, log, KeyTotalScore, &cached) && cached != s.GraceScore {
		log.Debug("cached grace score differs from derived value",
			zap.Int("cached", cached), zap.Int("derived", s.GraceScore))
	}

	return s
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// describe returns a short summary for debug logs.
func (s State) describe() string {
	return fmt.Sprintf("lessons=%d sessions=%d grace=%d streak=%d",
		len(s.CompletedLessonIDs), len(s.PracticeSessionDates), s.GraceScore, s.CurrentStreak)
}
