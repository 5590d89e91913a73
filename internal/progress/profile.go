package progress

import (
	"slices"
	"strconv"
	"strings"
)

// PrimaryReason is why the learner is studying etiquette.
type PrimaryReason string

const (
	ReasonSelfDevelopment    PrimaryReason = "Personal self-development"
	ReasonSocialEvent        PrimaryReason = "Preparing for a social event"
	ReasonProfessionalGrowth PrimaryReason = "Professional growth"
	ReasonConfidence         PrimaryReason = "Improving confidence"
	ReasonCulturalEducation  PrimaryReason = "Cultural education"
)

// AllPrimaryReasons returns every reason in display order.
func AllPrimaryReasons() []PrimaryReason {
	return []PrimaryReason{
		ReasonSelfDevelopment,
		ReasonSocialEvent,
		ReasonProfessionalGrowth,
		ReasonConfidence,
		ReasonCulturalEducation,
	}
}

// RefinementGoal is an area the learner wants to improve.
type RefinementGoal string

const (
	GoalDiningEtiquette  RefinementGoal = "Improve dining etiquette"
	GoalSocialConfidence RefinementGoal = "Improve social confidence"
	GoalFormalEvents     RefinementGoal = "Master formal event behavior"
	GoalDailyManners     RefinementGoal = "Strengthen daily manners"
)

// AllRefinementGoals returns every goal in display order.
func AllRefinementGoals() []RefinementGoal {
	return []RefinementGoal{
		GoalDiningEtiquette,
		GoalSocialConfidence,
		GoalFormalEvents,
		GoalDailyManners,
	}
}

// UserProfile is learner-entered metadata. It has no derived logic.
// PrimaryReasons and RefinementGoals have set semantics.
type UserProfile struct {
	FullName        string           `json:"fullName"`
	Age             int              `json:"age"`
	PrimaryReasons  []PrimaryReason  `json:"primaryReasons"`
	RefinementGoals []RefinementGoal `json:"refinementGoals"`
}

// HasReason reports whether r is selected.
func (p UserProfile) HasReason(r PrimaryReason) bool {
	return slices.Contains(p.PrimaryReasons, r)
}

// HasGoal reports whether g is selected.
func (p UserProfile) HasGoal(g RefinementGoal) bool {
	return slices.Contains(p.RefinementGoals, g)
}

// ToggleReason selects r if absent and deselects it otherwise.
func (p *UserProfile) ToggleReason(r PrimaryReason) {
	if i := slices.Index(p.PrimaryReasons, r); i >= 0 {
		p.PrimaryReasons = slices.Delete(p.PrimaryReasons, i, i+1)
		return
	}
	p.PrimaryReasons = append(p.PrimaryReasons, r)
}

// ToggleGoal selects g if absent and deselects it otherwise.
func (p *UserProfile) ToggleGoal(g RefinementGoal) {
	if i := slices.Index(p.RefinementGoals, g); i >= 0 {
		p.RefinementGoals = slices.Delete(p.RefinementGoals, i, i+1)
		return
	}
	p.RefinementGoals = append(p.RefinementGoals, g)
}

// normalized returns a copy with unknown values dropped, duplicates removed
// and both sets in display order.
func (p UserProfile) normalized() UserProfile {
	out := UserProfile{FullName: p.FullName, Age: p.Age}
	for _, r := range AllPrimaryReasons() {
		if slices.Contains(p.PrimaryReasons, r) {
			out.PrimaryReasons = append(out.PrimaryReasons, r)
		}
	}
	for _, g := range AllRefinementGoals() {
		if slices.Contains(p.RefinementGoals, g) {
			out.RefinementGoals = append(out.RefinementGoals, g)
		}
	}
	return out
}

func (p UserProfile) clone() UserProfile {
	p.PrimaryReasons = slices.Clone(p.PrimaryReasons)
	p.RefinementGoals = slices.Clone(p.RefinementGoals)
	return p
}

// ParseAge converts free-form age input to an integer. Anything that is not
// a non-negative whole number becomes 0.
func ParseAge(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
