package proptype

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeAliasStore struct {
	aliases    map[string]string
	unresolved []string
}

func (f *fakeAliasStore) LoadAliases(context.Context) (map[string]string, error) {
	return f.aliases, nil
}

func (f *fakeAliasStore) RecordUnresolved(_ context.Context, raw, _ string, _ float64, _ string) error {
	f.unresolved = append(f.unresolved, raw)
	return nil
}

func testNormalizer(t *testing.T) (*Normalizer, *fakeAliasStore) {
	t.Helper()
	store := &fakeAliasStore{aliases: SeedAliases()}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	n, err := NewNormalizer(context.Background(), store, logger)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n, store
}

func TestStrip(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Passing Yards", "passing yards"},
		{"passing_yards", "passing yards"},
		{"3-Point Field Goals", "3 point field goals"},
		{"PRA (Points+Rebounds+Assists)", "pra points rebounds assists"},
		{"O/U", "o u"},
		{"  Receptions  ", "receptions"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Strip(tt.raw); got != tt.want {
			t.Errorf("Strip(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeExact(t *testing.T) {
	n, _ := testNormalizer(t)
	tests := []struct {
		raw    string
		league string
		want   string
	}{
		{"Passing Yards", "NFL", PassingYards},
		{"passing_yards", "NFL", PassingYards},
		{"Passing Touchdowns", "NFL", PassingTDs},
		{"three_pointers_made", "NBA", ThreePM},
		{"Pitcher Strikeouts", "MLB", PitcherKs},
		{"shots_on_goal", "NHL", Shots},
		{"Earned Runs Allowed", "MLB", ERAllowed},
	}
	for _, tt := range tests {
		got, conf := n.Normalize(context.Background(), tt.raw, tt.league, 10)
		if got != tt.want || conf != ConfidenceExact {
			t.Errorf("Normalize(%q) = (%q, %s), want (%q, exact)", tt.raw, got, conf, tt.want)
		}
	}
}

// Once a value is canonical, normalizing it again returns the same value.
func TestNormalizeIdempotent(t *testing.T) {
	n, _ := testNormalizer(t)
	inputs := []string{"passing_yards", "Receiving Touchdowns", "3-Point Field Goals", "Pitcher Strikeouts"}
	for _, raw := range inputs {
		once, conf := n.Normalize(context.Background(), raw, "NFL", 10)
		if conf == ConfidenceNone {
			t.Fatalf("seed alias missing for %q", raw)
		}
		twice, conf2 := n.Normalize(context.Background(), once, "NFL", 10)
		if twice != once || conf2 != ConfidenceExact {
			t.Errorf("Normalize(Normalize(%q)): %q -> %q (%s)", raw, once, twice, conf2)
		}
	}
}

// Sentinel strings carry no stat info; they stay unknown regardless of how
// plausible the line looks, and every sighting lands in the curation channel.
func TestNormalizeSentinel(t *testing.T) {
	n, store := testNormalizer(t)

	got, conf := n.Normalize(context.Background(), "Over/Under", "NFL", 250.5)
	if got != Unknown || conf != ConfidenceSentinel {
		t.Errorf("sentinel with passing-range line = (%q, %s), want (Unknown, sentinel)", got, conf)
	}

	got, conf = n.Normalize(context.Background(), "player prop", "NBA", 30.5)
	if got != Unknown || conf != ConfidenceSentinel {
		t.Errorf("sentinel with scoring-range line = (%q, %s), want (Unknown, sentinel)", got, conf)
	}

	if len(store.unresolved) != 2 {
		t.Errorf("unresolved channel = %v, want both sentinel sightings recorded", store.unresolved)
	}
}

func TestNormalizeHeuristic(t *testing.T) {
	n, _ := testNormalizer(t)
	tests := []struct {
		raw    string
		league string
		line   float64
		want   string
	}{
		{"qb yds total", "NFL", 245.5, PassingYards},
		{"ground total", "NFL", 65.5, RushingYards},
		{"scoring", "NBA", 28.5, Points},
		{"boards", "NBA", 11.5, Rebounds},
		{"whiffs", "MLB", 6.5, PitcherKs},
	}
	for _, tt := range tests {
		got, conf := n.Normalize(context.Background(), tt.raw, tt.league, tt.line)
		if got != tt.want || conf != ConfidenceHeuristic {
			t.Errorf("Normalize(%q, %s, %.1f) = (%q, %s), want (%q, heuristic)",
				tt.raw, tt.league, tt.line, got, conf, tt.want)
		}
	}
}

func TestNormalizeUnknown(t *testing.T) {
	n, store := testNormalizer(t)

	got, conf := n.Normalize(context.Background(), "mystery market", "NFL", 9999)
	if got != Unknown || conf != ConfidenceNone {
		t.Errorf("Normalize(mystery) = (%q, %s), want (Unknown, none)", got, conf)
	}
	if len(store.unresolved) != 1 || store.unresolved[0] != "mystery market" {
		t.Errorf("unresolved channel = %v, want [mystery market]", store.unresolved)
	}

	// a league with no heuristic table never guesses
	got, conf = n.Normalize(context.Background(), "garbage time tackles", "CRICKET", 45.5)
	if got != Unknown || conf != ConfidenceNone {
		t.Errorf("unknown raw for unknown league = (%q, %s), want (Unknown, none)", got, conf)
	}
}

func TestRefreshPicksUpNewAliases(t *testing.T) {
	n, store := testNormalizer(t)

	if got, conf := n.Normalize(context.Background(), "sacks", "NFL", 9999); conf != ConfidenceNone {
		t.Fatalf("precondition: sacks should be unknown, got (%q, %s)", got, conf)
	}

	store.aliases["sacks"] = "Sacks"
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, conf := n.Normalize(context.Background(), "Sacks", "NFL", 9999)
	if got != "Sacks" || conf != ConfidenceExact {
		t.Errorf("after refresh = (%q, %s), want (Sacks, exact)", got, conf)
	}
}
