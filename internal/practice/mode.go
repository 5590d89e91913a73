package practice

import (
	"fmt"
	"strings"
)

// Mode is a practice session format.
type Mode string

const (
	ModeQuickTest    Mode = "Quick Test"
	ModeDeepSession  Mode = "Deep Session"
	ModeScenarioMode Mode = "Scenario Mode"
)

// AllModes returns every mode in display order.
func AllModes() []Mode {
	return []Mode{ModeQuickTest, ModeDeepSession, ModeScenarioMode}
}

// QuestionCount is the target number of items drawn for a session.
func (m Mode) QuestionCount() int {
	switch m {
	case ModeDeepSession:
		return 15
	default:
		return 5
	}
}

// Weight scales a session score before it is credited to metrics.
func (m Mode) Weight() float64 {
	if m == ModeDeepSession {
		return 0.15
	}
	return 0.10
}

// Duration is the rough time a session takes.
func (m Mode) Duration() string {
	switch m {
	case ModeQuickTest:
		return "~3 min"
	case ModeDeepSession:
		return "~10 min"
	case ModeScenarioMode:
		return "~5 min"
	default:
		return ""
	}
}

// Subtitle describes the mode in one line.
func (m Mode) Subtitle() string {
	switch m {
	case ModeQuickTest:
		return "5 questions"
	case ModeDeepSession:
		return "15 questions"
	case ModeScenarioMode:
		return "Real-world situations"
	default:
		return ""
	}
}

// IsScenario reports whether the mode draws scenarios instead of quizzes.
func (m Mode) IsScenario() bool {
	return m == ModeScenarioMode
}

// Slug is the short command-line name of the mode.
func (m Mode) Slug() string {
	switch m {
	case ModeQuickTest:
		return "quick"
	case ModeDeepSession:
		return "deep"
	case ModeScenarioMode:
		return "scenario"
	default:
		return string(m)
	}
}

// ParseMode accepts a slug ("quick", "deep", "scenario") or a display name,
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	for _, m := range AllModes() {
		if strings.EqualFold(s, m.Slug()) || strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown practice mode %q (want quick, deep or scenario)", s)
}
