package proptype

// Closed canonical taxonomy. Every CanonicalProp and CanonicalGameLog row
// carries one of these values, never a raw provider string.
const (
	Unknown = "Unknown"

	// football
	PassingYards       = "Passing Yards"
	PassingCompletions = "Passing Completions"
	PassingTDs         = "Passing TDs"
	PassingAttempts    = "Passing Attempts"
	Interceptions      = "Interceptions"
	RushingYards       = "Rushing Yards"
	RushingAttempts    = "Rushing Attempts"
	RushingTDs         = "Rushing TDs"
	ReceivingYards     = "Receiving Yards"
	Receptions         = "Receptions"
	ReceivingTDs       = "Receiving TDs"

	// basketball
	Points       = "Points"
	Assists      = "Assists"
	Rebounds     = "Rebounds"
	ThreePM      = "3PM"
	Steals       = "Steals"
	Blocks       = "Blocks"
	Turnovers    = "Turnovers"
	PRA          = "PRA"
	DoubleDouble = "Double Double"
	TripleDouble = "Triple Double"

	// baseball
	Hits        = "Hits"
	Runs        = "Runs"
	RBIs        = "RBIs"
	HomeRuns    = "Home Runs"
	TotalBases  = "Total Bases"
	StolenBases = "Stolen Bases"
	PitcherKs   = "Pitcher Ks"
	PitcherOuts = "Pitcher Outs"
	ERAllowed   = "ER Allowed"

	// hockey
	Goals = "Goals"
	Shots = "Shots"
	PPP   = "PPP"
	Saves = "Saves"
)

// seedAliases is the curated bootstrap list for the alias table. Keys are in
// stripped form (lowercase, punctuation collapsed to spaces); each canonical
// type also aliases its own stripped form so Normalize is idempotent on
// already-canonical input. Operators append further rows over time.
var seedAliases = map[string]string{
	// canonical round-trips
	"passing yards":       PassingYards,
	"passing completions": PassingCompletions,
	"passing tds":         PassingTDs,
	"passing attempts":    PassingAttempts,
	"interceptions":       Interceptions,
	"rushing yards":       RushingYards,
	"rushing attempts":    RushingAttempts,
	"rushing tds":         RushingTDs,
	"receiving yards":     ReceivingYards,
	"receptions":          Receptions,
	"receiving tds":       ReceivingTDs,
	"points":              Points,
	"assists":             Assists,
	"rebounds":            Rebounds,
	"3pm":                 ThreePM,
	"steals":              Steals,
	"blocks":              Blocks,
	"turnovers":           Turnovers,
	"pra":                 PRA,
	"double double":       DoubleDouble,
	"triple double":       TripleDouble,
	"hits":                Hits,
	"runs":                Runs,
	"rbis":                RBIs,
	"home runs":           HomeRuns,
	"total bases":         TotalBases,
	"stolen bases":        StolenBases,
	"pitcher ks":          PitcherKs,
	"pitcher outs":        PitcherOuts,
	"er allowed":          ERAllowed,
	"goals":               Goals,
	"shots":               Shots,
	"ppp":                 PPP,
	"saves":               Saves,

	// display-name variants
	"passing touchdowns":      PassingTDs,
	"rushing touchdowns":      RushingTDs,
	"receiving touchdowns":    ReceivingTDs,
	"interceptions thrown":    Interceptions,
	"passing interceptions":   Interceptions,
	"3 point field goals":     ThreePM,
	"3 pointers made":         ThreePM,
	"three pointers made":     ThreePM,
	"pra points rebounds assists": PRA,
	"points rebounds assists": PRA,
	"pitcher strikeouts":      PitcherKs,
	"strikeouts":              PitcherKs,
	"outs":                    PitcherOuts,
	"earned runs":             ERAllowed,
	"earned runs allowed":     ERAllowed,
	"shots on goal":           Shots,
	"power play points":       PPP,
	"saves goalie":            Saves,
	"goalscorer anytime":      Goals,
	"anytime goalscorer":      Goals,
}
