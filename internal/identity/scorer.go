package identity

// Candidate is one existing identity considered during resolution, already
// in normalized form.
type Candidate struct {
	CanonicalPlayerID string
	NormalizedName    string
	Team              string
}

// Scorer scores how well a normalized (name, team) sighting matches an
// existing candidate. Pluggable so exact-match, edit-distance and
// context-weighted strategies can be swapped and tested independently of the
// resolver's control flow. Scores are in [0, 1]; the resolver only binds
// candidates scoring 1.
type Scorer interface {
	Score(normalizedName, team string, c Candidate) float64
}

// ExactScorer matches on exact normalized name and canonical team. An empty
// team on either side degrades to a name-only match, since odds feeds often
// omit the player's team; a resulting multi-candidate hit goes through the
// unresolved channel rather than being guessed at.
type ExactScorer struct{}

func (ExactScorer) Score(normalizedName, team string, c Candidate) float64 {
	if normalizedName != c.NormalizedName {
		return 0
	}
	if team == "" || c.Team == "" || team == c.Team {
		return 1
	}
	return 0
}
