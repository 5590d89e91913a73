package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalContent = `{
  "dailyAdvice": [
    {"id": "a0", "tip": "zero", "sfSymbol": "x"},
    {"id": "a1", "tip": "one", "sfSymbol": "x"},
    {"id": "a2", "tip": "two", "sfSymbol": "x"}
  ],
  "categories": [
    {
      "id": "dining", "title": "Dining", "subtitle": "", "imageName": "", "sfSymbol": "",
      "lessons": [{"id": "l1", "title": "L1", "content": "c", "keyPoints": []}],
      "quizzes": [
        {"id": "q1", "question": "?", "options": ["a", "b"], "correctIndex": 1},
        {"id": "q2", "question": "?", "options": ["a", "b"], "correctIndex": 0}
      ],
      "scenarios": [{"id": "s1", "situation": "!", "options": ["a"], "correctIndex": 0, "explanation": "e"}]
    },
    {
      "id": "social", "title": "Social", "subtitle": "", "imageName": "", "sfSymbol": "",
      "lessons": [],
      "quizzes": [{"id": "q3", "question": "?", "options": ["a", "b", "c"], "correctIndex": 2}],
      "scenarios": []
    }
  ]
}`

func TestBundledContentIsValid(t *testing.T) {
	require.NoError(t, Validate(bundledContent))

	c := Load("", nil)
	assert.NotEmpty(t, c.Categories())
	assert.NotEmpty(t, c.DailyAdvice())
	for _, id := range []string{"dining", "social", "public", "formal", "professional"} {
		_, ok := c.Category(id)
		assert.True(t, ok, "bundled catalog missing category %q", id)
	}
}

func TestParse_Lookups(t *testing.T) {
	c, err := Parse([]byte(minimalContent))
	require.NoError(t, err)

	cat, ok := c.Category("social")
	require.True(t, ok)
	assert.Equal(t, "Social", cat.Title)

	_, ok = c.Category("mixed")
	assert.False(t, ok)

	featured, ok := c.FeaturedCategory()
	require.True(t, ok)
	assert.Equal(t, "dining", featured.ID)

	lesson, owner, ok := c.Lesson("l1")
	require.True(t, ok)
	assert.Equal(t, "L1", lesson.Title)
	assert.Equal(t, "dining", owner.ID)
}

func TestAllQuizzes_CategoryThenItemOrder(t *testing.T) {
	c, err := Parse([]byte(minimalContent))
	require.NoError(t, err)

	var ids []string
	for _, q := range c.AllQuizzes() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"q1", "q2", "q3"}, ids)
	assert.Len(t, c.AllScenarios(), 1)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"dailyAdvice": [`},
		{"missing categories", `{"dailyAdvice": []}`},
		{"category without id", `{"dailyAdvice": [], "categories": [{"title": "t", "lessons": [], "quizzes": [], "scenarios": []}]}`},
		{"negative index", `{"dailyAdvice": [], "categories": [{"id": "c", "title": "t", "lessons": [], "scenarios": [],
			"quizzes": [{"id": "q", "question": "?", "options": ["a"], "correctIndex": -1}]}]}`},
		{"index past options", `{"dailyAdvice": [], "categories": [{"id": "c", "title": "t", "lessons": [], "quizzes": [],
			"scenarios": [{"id": "s", "situation": "!", "options": ["a"], "correctIndex": 1, "explanation": ""}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate([]byte(tt.raw)))
		})
	}
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"categories": 3}`), 0o644))

	for name, path := range map[string]string{
		"missing file": filepath.Join(dir, "nope.json"),
		"malformed":    bad,
	} {
		t.Run(name, func(t *testing.T) {
			c := Load(path, nil)
			assert.Empty(t, c.Categories())
			assert.Empty(t, c.DailyAdvice())
			_, ok := c.TodayAdvice(time.Now())
			assert.False(t, ok)
		})
	}
}

func TestAdviceFor_OrdinalDay(t *testing.T) {
	list := []DailyAdvice{{ID: "a0"}, {ID: "a1"}, {ID: "a2"}}

	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.January, 1, 9, 0, 0, 0, time.Local), "a1"},  // day 1
		{time.Date(2026, time.January, 3, 9, 0, 0, 0, time.Local), "a0"},  // day 3
		{time.Date(2026, time.February, 1, 9, 0, 0, 0, time.Local), "a2"}, // day 32
	}
	for _, tt := range tests {
		got, ok := AdviceFor(list, tt.date)
		require.True(t, ok)
		assert.Equal(t, tt.want, got.ID, "day %d", tt.date.YearDay())
	}
}

func TestIsCorrect(t *testing.T) {
	q := QuizQuestion{Options: []string{"a", "b"}, CorrectIndex: 1}
	assert.True(t, q.IsCorrect(1))
	assert.False(t, q.IsCorrect(0))

	s := Scenario{Options: []string{"a"}, CorrectIndex: 0}
	assert.True(t, s.IsCorrect(0))
}
