// Package catalog holds the immutable lesson, quiz and scenario content.
//
// A Catalog is loaded once at startup and only read afterwards, so it is
// safe to share across goroutines without locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

//go:embed content.json
var bundledContent []byte

// Catalog is a read-only view over loaded content.
type Catalog struct {
	categories []Category
	advice     []DailyAdvice
}

// Empty returns a catalog with no categories and no advice.
func Empty() *Catalog {
	return &Catalog{}
}

// Parse validates and decodes raw catalog JSON.
func Parse(raw []byte) (*Catalog, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return New(content), nil
}

// New builds a catalog from already-decoded content.
func New(content Content) *Catalog {
	return &Catalog{
		categories: content.Categories,
		advice:     content.DailyAdvice,
	}
}

// Load reads the catalog at path, or the bundled content when path is
// empty. Missing or malformed content yields an empty catalog and a
// warning; it never fails.
func Load(path string, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}

	raw := bundledContent
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Warn("catalog unavailable, using empty catalog", zap.String("path", path), zap.Error(err))
			return Empty()
		}
		raw = b
	}

	c, err := Parse(raw)
	if err != nil {
		log.Warn("catalog malformed, using empty catalog", zap.String("path", path), zap.Error(err))
		return Empty()
	}
	log.Debug("catalog loaded",
		zap.Int("categories", len(c.categories)),
		zap.Int("advice", len(c.advice)))
	return c
}

// Categories returns all categories in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// FeaturedCategory returns the first category, if any.
func (c *Catalog) FeaturedCategory() (Category, bool) {
	if len(c.categories) == 0 {
		return Category{}, false
	}
	return c.categories[0], true
}

// Lesson finds a lesson by id across all categories.
func (c *Catalog) Lesson(id string) (Lesson, Category, bool) {
	for _, cat := range c.categories {
		for _, l := range cat.Lessons {
			if l.ID == id {
				return l, cat, true
			}
		}
	}
	return Lesson{}, Category{}, false
}

// AllQuizzes flattens quiz questions in category order, then per-category order.
func (c *Catalog) AllQuizzes() []QuizQuestion {
	var out []QuizQuestion
	for _, cat := range c.categories {
		out = append(out, cat.Quizzes...)
	}
	return out
}

// AllScenarios flattens scenarios in category order, then per-category order.
func (c *Catalog) AllScenarios() []Scenario {
	var out []Scenario
	for _, cat := range c.categories {
		out = append(out, cat.Scenarios...)
	}
	return out
}

// DailyAdvice returns the full advice rotation.
func (c *Catalog) DailyAdvice() []DailyAdvice {
	return c.advice
}

// TodayAdvice selects the advice for now's ordinal day of the year.
func (c *Catalog) TodayAdvice(now time.Time) (DailyAdvice, bool) {
	return AdviceFor(c.advice, now)
}

// AdviceFor returns list[dayOfYear % len(list)] where dayOfYear is 1-based,
// so January 1st selects index 1 % len(list).
func AdviceFor(list []DailyAdvice, now time.Time) (DailyAdvice, bool) {
	if len(list) == 0 {
		return DailyAdvice{}, false
	}
	return list[now.YearDay()%len(list)], true
}
