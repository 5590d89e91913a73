// Package practice composes quiz and scenario sessions from the catalog and
// forwards their scores to the progress store.
package practice

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/monarch/internal/catalog"
)

// MixedCategoryID requests a pool drawn from every category.
const MixedCategoryID = "mixed"

// Recorder receives finished session scores.
type Recorder interface {
	RecordPracticeSession(ctx context.Context, score float64, categoryID string, mode Mode) error
}

// QuestionsForSession draws min(mode.QuestionCount(), len(pool)) distinct
// quiz questions in random order. The pool is every category's questions
// when categoryID is "mixed" or mode is DeepSession, otherwise the named
// category's questions; an unknown category yields an empty pool.
func QuestionsForSession(categories []catalog.Category, categoryID string, mode Mode, rng *rand.Rand) []catalog.QuizQuestion {
	var pool []catalog.QuizQuestion
	if categoryID == MixedCategoryID || mode == ModeDeepSession {
		for _, c := range categories {
			pool = append(pool, c.Quizzes...)
		}
	} else if c, ok := findCategory(categories, categoryID); ok {
		pool = c.Quizzes
	}
	return sample(pool, mode.QuestionCount(), rng)
}

// ScenariosForSession is QuestionsForSession for scenarios. Only "mixed"
// pools across categories.
func ScenariosForSession(categories []catalog.Category, categoryID string, mode Mode, rng *rand.Rand) []catalog.Scenario {
	var pool []catalog.Scenario
	if categoryID == MixedCategoryID {
		for _, c := range categories {
			pool = append(pool, c.Scenarios...)
		}
	} else if c, ok := findCategory(categories, categoryID); ok {
		pool = c.Scenarios
	}
	return sample(pool, mode.QuestionCount(), rng)
}

func findCategory(categories []catalog.Category, id string) (catalog.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return catalog.Category{}, false
}

// sample returns up to n elements of pool chosen uniformly without
// replacement. pool is not modified.
func sample[T any](pool []T, n int, rng *rand.Rand) []T {
	n = min(n, len(pool))
	if n <= 0 {
		return nil
	}
	perm := rng.Perm(len(pool))
	out := make([]T, n)
	for i := range out {
		out[i] = pool[perm[i]]
	}
	return out
}

// Composer builds sessions for the selected category and mode and reports
// their results.
type Composer struct {
	categories []catalog.Category
	recorder   Recorder
	log        *zap.Logger

	mu         sync.Mutex
	rng        *rand.Rand
	categoryID string
	mode       Mode
}

// NewComposer returns a Composer over categories. A nil rng is seeded from
// the clock.
func NewComposer(categories []catalog.Category, recorder Recorder, rng *rand.Rand) *Composer {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Composer{
		categories: categories,
		recorder:   recorder,
		log:        zap.NewNop(),
		rng:        rng,
		categoryID: MixedCategoryID,
		mode:       ModeQuickTest,
	}
}

// WithLogger sets the logger that records finished sessions and returns c.
func (c *Composer) WithLogger(log *zap.Logger) *Composer {
	if log != nil {
		c.log = log
	}
	return c
}

// Select sets the category and mode used by later calls.
func (c *Composer) Select(categoryID string, mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categoryID = categoryID
	c.mode = mode
}

// Selection returns the current category and mode.
func (c *Composer) Selection() (string, Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categoryID, c.mode
}

// Questions draws quiz questions for the current selection.
func (c *Composer) Questions() []catalog.QuizQuestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return QuestionsForSession(c.categories, c.categoryID, c.mode, c.rng)
}

// Scenarios draws scenarios for the current selection.
func (c *Composer) Scenarios() []catalog.Scenario {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ScenariosForSession(c.categories, c.categoryID, c.mode, c.rng)
}

// Start builds a Session for the current selection. Scenario mode draws
// scenarios; the other modes draw quiz questions.
func (c *Composer) Start() *Session {
	categoryID, mode := c.Selection()
	var items []Item
	if mode.IsScenario() {
		for _, sc := range c.Scenarios() {
			items = append(items, scenarioItem(sc))
		}
	} else {
		for _, q := range c.Questions() {
			items = append(items, quizItem(q))
		}
	}
	return newSession(categoryID, mode, items)
}

// RecordResult forwards score for the current selection.
func (c *Composer) RecordResult(ctx context.Context, score float64) error {
	categoryID, mode := c.Selection()
	return c.recorder.RecordPracticeSession(ctx, score, categoryID, mode)
}

// Finish records a completed session. Sessions with no items are not
// recorded and report recorded=false.
func (c *Composer) Finish(ctx context.Context, s *Session) (recorded bool, err error) {
	fields := []zap.Field{
		zap.Stringer("session_id", s.ID),
		zap.String("category", s.CategoryID),
		zap.String("mode", string(s.Mode)),
		zap.Int("correct", s.Correct()),
		zap.Int("total", s.Total()),
	}
	if s.Total() == 0 {
		c.log.Debug("empty practice session not recorded", fields...)
		return false, nil
	}
	if err := c.recorder.RecordPracticeSession(ctx, s.Score(), s.CategoryID, s.Mode); err != nil {
		c.log.Warn("practice session not recorded", append(fields, zap.Error(err))...)
		return true, err
	}
	c.log.Info("practice session finished", fields...)
	return true, nil
}
