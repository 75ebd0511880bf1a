// Package analytics holds the pure math behind player-prop snapshots.
// Inputs are plain slices ordered most-recent-first; nothing here touches
// persistence, so every function is trivially table-testable.
package analytics

import (
	"math"
	"sort"
	"time"
)

// Game is one canonical game log annotated with the line active for it.
type Game struct {
	Value    float64
	Line     float64
	Hit      bool // Value >= Line
	Opponent string
	Date     time.Time
}

// Rate is a windowed hit rate with the sample that produced it, so
// consumers can discount small samples.
type Rate struct {
	Pct   float64
	Games int
}

// HitRate computes the percentage of hits across the most recent
// min(window, len(games)) games.
func HitRate(games []Game, window int) Rate {
	if window > len(games) {
		window = len(games)
	}
	if window == 0 {
		return Rate{}
	}
	hits := 0
	for _, g := range games[:window] {
		if g.Hit {
			hits++
		}
	}
	return Rate{Pct: round1(float64(hits) / float64(window) * 100), Games: window}
}

// Streak counts consecutive games sharing the most recent game's direction.
// Positive means consecutive overs, negative consecutive unders, 0 no data.
func Streak(games []Game) int {
	if len(games) == 0 {
		return 0
	}
	dir := games[0].Hit
	n := 0
	for _, g := range games {
		if g.Hit != dir {
			break
		}
		n++
	}
	if dir {
		return n
	}
	return -n
}

// H2HAverage averages Value over games against the given opponent. Returns
// nil when no games qualify or the opponent is unknown.
func H2HAverage(games []Game, opponent string) (*float64, int) {
	if opponent == "" {
		return nil, 0
	}
	sum, n := 0.0, 0
	for _, g := range games {
		if g.Opponent == opponent {
			sum += g.Value
			n++
		}
	}
	if n == 0 {
		return nil, 0
	}
	avg := round2(sum / float64(n))
	return &avg, n
}

// SeasonAverage is the mean Value across all games for the key.
func SeasonAverage(games []Game) float64 {
	if len(games) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range games {
		sum += g.Value
	}
	return round2(sum / float64(len(games)))
}

// AmericanToImplied converts American odds to an implied win probability
// in [0,1].
func AmericanToImplied(odds int) float64 {
	if odds > 0 {
		return 100 / (float64(odds) + 100)
	}
	a := math.Abs(float64(odds))
	return a / (a + 100)
}

// ExpectedValue picks the side implied by seasonAvg vs line, converts that
// side's odds to an implied probability and compares it against the best
// available empirical hit rate (L10, then L20, then L5). Nil when the
// chosen side has no odds or no window has a sample.
func ExpectedValue(seasonAvg, line float64, overOdds, underOdds *int, l5, l10, l20 Rate) *float64 {
	var odds *int
	if seasonAvg > line {
		odds = overOdds
	} else {
		odds = underOdds
	}
	if odds == nil {
		return nil
	}

	var base *Rate
	for _, r := range []Rate{l10, l20, l5} {
		if r.Games > 0 {
			base = &r
			break
		}
	}
	if base == nil {
		return nil
	}

	// The empirical hit rate is the edge estimate for whichever side was
	// chosen; it is compared against that side's implied probability as-is.
	ev := round2((base.Pct/100 - AmericanToImplied(*odds)) * 100)
	return &ev
}

// TeamAllowed is one team's defensive output for a prop type.
type TeamAllowed struct {
	Team           string
	Rank           int
	GamesTracked   int
	AllowedPerGame float64
}

// DefenseRanks turns per-(team, game) summed opponent production into an
// ascending rank table: rank 1 allows the least per game. Ties break on
// team id so the ordering is reproducible.
func DefenseRanks(perTeamGame map[string]map[string]float64) []TeamAllowed {
	out := make([]TeamAllowed, 0, len(perTeamGame))
	for team, byGame := range perTeamGame {
		if len(byGame) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range byGame {
			sum += v
		}
		out = append(out, TeamAllowed{
			Team:           team,
			GamesTracked:   len(byGame),
			AllowedPerGame: round2(sum / float64(len(byGame))),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AllowedPerGame != out[j].AllowedPerGame {
			return out[i].AllowedPerGame < out[j].AllowedPerGame
		}
		return out[i].Team < out[j].Team
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
