package proptype

// Line-magnitude fallback for raw strings the alias table does not know.
// Ranges are per league, ordered, non-overlapping; the first match wins so
// the result is a single deterministic canonical type. Bump the version
// whenever a range changes so stored Unresolved rows can be re-evaluated.

const HeuristicVersion = "v2"

type lineRange struct {
	min, max  float64
	canonical string
}

var heuristicRules = map[string][]lineRange{
	"NFL": {
		{175, 450, PassingYards},
		{40, 174.5, RushingYards},
		{15, 39.5, ReceivingYards},
		{3.5, 14.5, Receptions},
		{0, 3, PassingTDs},
	},
	"NCAAF": {
		{175, 450, PassingYards},
		{40, 174.5, RushingYards},
		{15, 39.5, ReceivingYards},
		{3.5, 14.5, Receptions},
		{0, 3, PassingTDs},
	},
	"NBA": {
		{25, 60, Points},
		{10, 24.5, Rebounds},
		{4, 9.5, Assists},
		{0, 3.5, ThreePM},
	},
	"NCAAB": {
		{20, 50, Points},
		{8, 19.5, Rebounds},
		{3, 7.5, Assists},
		{0, 2.5, ThreePM},
	},
	"MLB": {
		{4.5, 12, PitcherKs},
		{1.5, 4, TotalBases},
		{0, 1.4, Hits},
	},
	"NHL": {
		{20, 45, Saves},
		{2, 6.5, Shots},
		{0, 1.5, Goals},
	},
}

// guessByLine returns the best single match for (league, line), or "" when
// no range applies.
func guessByLine(league string, line float64) string {
	for _, r := range heuristicRules[league] {
		if line >= r.min && line <= r.max {
			return r.canonical
		}
	}
	return ""
}
