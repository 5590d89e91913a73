// Package telemetry exposes progress activity as prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/monarch/internal/progress"
)

// Collectors holds the progress metrics. Feed it with Handle, usually by
// subscribing it to a progress.Service.
type Collectors struct {
	LessonsCompleted prometheus.Counter
	PracticeSessions *prometheus.CounterVec
	PersistFailures  prometheus.Counter
	GraceScore       prometheus.Gauge
	StreakDays       prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		LessonsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monarch_lessons_completed_total",
			Help: "Lesson completions recorded, including repeats.",
		}),
		PracticeSessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monarch_practice_sessions_total",
				Help: "Practice sessions recorded by mode.",
			},
			[]string{"mode"},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monarch_persist_failures_total",
			Help: "Mutations whose state could not be fully persisted.",
		}),
		GraceScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monarch_grace_score",
			Help: "Current grace score.",
		}),
		StreakDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monarch_streak_days",
			Help: "Current practice streak in days.",
		}),
	}
	for _, col := range []prometheus.Collector{
		c.LessonsCompleted, c.PracticeSessions, c.PersistFailures, c.GraceScore, c.StreakDays,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Handle updates the collectors for one progress event.
func (c *Collectors) Handle(ev progress.Event) {
	switch ev.Kind {
	case progress.KindLessonCompleted:
		c.LessonsCompleted.Inc()
	case progress.KindPracticeRecorded:
		c.PracticeSessions.WithLabelValues(ev.Mode.Slug()).Inc()
	}
	if ev.PersistErr != nil {
		c.PersistFailures.Inc()
	}
	c.GraceScore.Set(float64(ev.GraceScore))
	c.StreakDays.Set(float64(ev.Streak))
}

// Observe seeds the gauges from the service and subscribes to it. The
// returned func unsubscribes.
func (c *Collectors) Observe(svc *progress.Service) (cancel func()) {
	c.GraceScore.Set(float64(svc.GraceScore()))
	c.StreakDays.Set(float64(svc.CurrentStreak()))
	return svc.Subscribe(c.Handle)
}
