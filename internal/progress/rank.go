package progress

// SocietyRank is the coarse title derived from the grace score.
type SocietyRank struct {
	Level       int
	Title       string
	Description string
	NextTitle   string
}

var ranks = []SocietyRank{
	{Level: 1, Title: "Novice", Description: "Beginning the journey of refinement", NextTitle: "Refined"},
	{Level: 2, Title: "Refined", Description: "Showing signs of elegance", NextTitle: "Cultured"},
	{Level: 3, Title: "Cultured", Description: "Demonstrating consistent elegance", NextTitle: "Distinguished"},
	{Level: 4, Title: "Distinguished", Description: "A paragon of refined conduct", NextTitle: "Royal"},
	{Level: 5, Title: "Royal", Description: "The pinnacle of etiquette mastery", NextTitle: "Royal"},
}

// rankBands holds the lower bound and width of levels 1-4.
var rankBands = [4]struct{ floor, width int }{
	{0, 20},
	{20, 20},
	{40, 25},
	{65, 20},
}

// Ranks returns all ranks from lowest to highest.
func Ranks() []SocietyRank {
	out := make([]SocietyRank, len(ranks))
	copy(out, ranks)
	return out
}

// Rank returns the rank for a grace score: <20 Novice, <40 Refined,
// <65 Cultured, <85 Distinguished, otherwise Royal.
func Rank(graceScore int) SocietyRank {
	switch {
	case graceScore < 20:
		return ranks[0]
	case graceScore < 40:
		return ranks[1]
	case graceScore < 65:
		return ranks[2]
	case graceScore < 85:
		return ranks[3]
	default:
		return ranks[4]
	}
}

// RankProgress is how far the score has travelled through its rank band,
// in [0, 1]. Royal is always 1.
func RankProgress(graceScore int) float64 {
	level := Rank(graceScore).Level
	if level == 5 {
		return 1.0
	}
	band := rankBands[level-1]
	p := float64(graceScore-band.floor) / float64(band.width)
	if p < 0 {
		return 0
	}
	return min(p, 1.0)
}

// ScoreSubtitle is the encouragement line shown beside the grace score.
func ScoreSubtitle(graceScore int) string {
	switch Rank(graceScore).Level {
	case 1:
		return "Begin your journey to elegance"
	case 2:
		return "Signs of refinement are emerging"
	case 3:
		return "You're on the path to flawless elegance"
	case 4:
		return "A paragon of refined conduct"
	default:
		return "You have achieved royal grace"
	}
}
