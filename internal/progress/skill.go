package progress

import "math"

// Skill is one of the four tracked etiquette metrics.
type Skill string

const (
	SkillPoise       Skill = "Poise"
	SkillComposure   Skill = "Composure"
	SkillElegance    Skill = "Elegance"
	SkillConsistency Skill = "Consistency"
)

// AllSkills returns the skills in display order.
func AllSkills() []Skill {
	return []Skill{SkillPoise, SkillComposure, SkillElegance, SkillConsistency}
}

// Metrics maps every skill to a mastery value in [0, 1].
type Metrics map[Skill]float64

func zeroMetrics() Metrics {
	m := make(Metrics, 4)
	for _, s := range AllSkills() {
		m[s] = 0
	}
	return m
}

func (m Metrics) clone() Metrics {
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Average is the mean over the four skills.
func (m Metrics) Average() float64 {
	var sum float64
	for _, s := range AllSkills() {
		sum += m[s]
	}
	return sum / float64(len(AllSkills()))
}

// add raises skill by inc, never beyond 1.0.
func (m Metrics) add(skill Skill, inc float64) {
	m[skill] = math.Min(1.0, m[skill]+inc)
}

// SkillForCategory maps a category id to the skill it trains. The second
// result is false for ids that spread credit across all skills, including
// "mixed".
func SkillForCategory(categoryID string) (Skill, bool) {
	switch categoryID {
	case "dining":
		return SkillPoise, true
	case "social":
		return SkillComposure, true
	case "formal", "public":
		return SkillElegance, true
	case "professional":
		return SkillConsistency, true
	default:
		return "", false
	}
}

// applyWeight routes weight into the metrics for categoryID.
func (m Metrics) applyWeight(categoryID string, weight float64) {
	if skill, ok := SkillForCategory(categoryID); ok {
		m.add(skill, weight)
		return
	}
	inc := weight / 4.0
	for _, s := range AllSkills() {
		m.add(s, inc)
	}
}

const (
	lessonBonusPerLesson = 0.05
	maxLessonBonus       = 0.5
)

// LessonBonus is the grace score contribution of completed lessons.
func LessonBonus(completedLessons int) float64 {
	return math.Min(maxLessonBonus, float64(completedLessons)*lessonBonusPerLesson)
}

// GraceScore is round((average(metrics) + lessonBonus) * 100).
func GraceScore(m Metrics, completedLessons int) int {
	return int(math.Round((m.Average() + LessonBonus(completedLessons)) * 100))
}
