package identity

import "strings"

// trailingNoise are tokens providers leak into player-name fields: prop-type
// words from market titles ("Josh Allen Passing Yards") and over/under
// markers. Stripped from the tail only, so legitimate names keep their words.
var trailingNoise = map[string]bool{
	"passing": true, "rushing": true, "receiving": true, "yards": true,
	"touchdowns": true, "tds": true, "td": true, "attempts": true,
	"completions": true, "receptions": true, "points": true, "rebounds": true,
	"assists": true, "goals": true, "shots": true, "hits": true, "saves": true,
	"strikeouts": true, "over": true, "under": true, "o": true, "u": true,
	"prop": true, "total": true,
}

// NormalizeName produces the deterministic comparison form of a raw player
// name: case-folded, separators collapsed to single spaces, trailing
// prop-type tokens and numeric markers stripped. Pure function; tests assert
// exact output strings.
func NormalizeName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	for _, sep := range []string{"_", ".", ",", "'", "-", "’"} {
		s = strings.ReplaceAll(s, sep, " ")
	}
	fields := strings.Fields(s)

	// strip trailing noise: numeric markers first ("mahomes 1"), then any
	// run of prop-type tokens ("allen passing yards")
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if isNumeric(last) || trailingNoise[last] {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}
	return strings.Join(fields, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// teamAliases folds source-specific abbreviation drift onto the
// league-standard code. Sources disagree on relocations and truncations
// (WAS vs WSH, JAC vs JAX, a truncated LA for either Los Angeles club).
var teamAliases = map[string]string{
	// NFL drift seen across feeds
	"WAS": "WSH", "WFT": "WSH",
	"JAC": "JAX",
	"OAK": "LV", "LVR": "LV",
	"SD": "LAC", "SDG": "LAC",
	"STL": "LAR", "LA": "LAR",
	// stats-site truncated city prefixes
	"GNB": "GB", "KAN": "KC", "NWE": "NE", "NOR": "NO",
	"SFO": "SF", "TAM": "TB",
	// NBA drift
	"PHO": "PHX", "BRK": "BKN",
}

// CanonicalTeam maps a source team abbreviation to the canonical code. The
// table wins; anything it does not know passes through upper-cased so new
// teams still flow (and surface via unresolved identities if two sources
// disagree).
func CanonicalTeam(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := teamAliases[code]; ok {
		return canonical
	}
	return code
}
