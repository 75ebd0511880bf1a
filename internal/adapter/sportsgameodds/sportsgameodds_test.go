package sportsgameodds

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

const eventFixture = `{
  "eventID": "evt-2025-11-02-PHI-DAL",
  "status": {"startsAt": "2025-11-02T18:00:00Z"},
  "teams": {
    "home": {"teamID": "PHILADELPHIA_EAGLES_NFL", "names": {"abbr": "PHI", "short": "Eagles"}},
    "away": {"teamID": "DALLAS_COWBOYS_NFL", "names": {"abbr": "DAL", "short": "Cowboys"}}
  },
  "players": {
    "JALEN_HURTS_1_NFL": {"teamID": "PHILADELPHIA_EAGLES_NFL"}
  },
  "odds": {
    "passing_yards-JALEN_HURTS_1_NFL-game-ou-over": {
      "statID": "passing_yards",
      "playerID": "JALEN_HURTS_1_NFL",
      "sideID": "over",
      "marketName": "Jalen Hurts Passing Yards Over/Under",
      "fairOverUnder": "245.5",
      "byBookmaker": {
        "draftkings": {"available": true, "odds": "-110", "overUnder": "244.5"},
        "fanduel": {"available": false, "odds": "-112", "overUnder": "245.5"}
      }
    },
    "passing_yards-JALEN_HURTS_1_NFL-game-ou-under": {
      "statID": "passing_yards",
      "playerID": "JALEN_HURTS_1_NFL",
      "sideID": "under",
      "byBookmaker": {
        "draftkings": {"available": true, "odds": "-105"}
      }
    },
    "points-home-game-ou-over": {
      "statID": "points",
      "sideID": "over",
      "byBookmaker": {
        "draftkings": {"available": true, "odds": "-110", "overUnder": "47.5"}
      }
    }
  }
}`

func TestParseEvent(t *testing.T) {
	var event sgoEvent
	if err := json.Unmarshal([]byte(eventFixture), &event); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	a := &Adapter{name: "sportsgameodds", logger: logger}

	dropped := 0
	records := a.parseEvent(event, "NFL", &dropped)

	// team total and the unavailable fanduel book are skipped; the under
	// side folds into the over record
	if len(records) != 1 {
		t.Fatalf("parseEvent returned %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.SourcePlayerID != "JALEN_HURTS_1_NFL" {
		t.Errorf("SourcePlayerID = %q", rec.SourcePlayerID)
	}
	if rec.RawName != "Jalen Hurts" {
		t.Errorf("RawName = %q, want Jalen Hurts", rec.RawName)
	}
	if rec.RawPropType != "passing_yards" {
		t.Errorf("RawPropType = %q", rec.RawPropType)
	}
	// the player's team comes from the event players map, not the odd
	if rec.Team != "PHI" || rec.Opponent != "DAL" {
		t.Errorf("Team/Opponent = %q/%q, want PHI/DAL", rec.Team, rec.Opponent)
	}
	if rec.Line != 244.5 {
		t.Errorf("Line = %.1f, want book line 244.5", rec.Line)
	}
	if rec.Bookmaker != "draftkings" {
		t.Errorf("Bookmaker = %q", rec.Bookmaker)
	}
	if rec.OverOddsAmerican == nil || *rec.OverOddsAmerican != -110 {
		t.Errorf("OverOddsAmerican = %v, want -110", rec.OverOddsAmerican)
	}
	if rec.UnderOddsAmerican == nil || *rec.UnderOddsAmerican != -105 {
		t.Errorf("UnderOddsAmerican = %v, want -105", rec.UnderOddsAmerican)
	}
	if rec.EventDate.IsZero() {
		t.Error("EventDate not set")
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
}

func TestParseEventFallsBackToFairLine(t *testing.T) {
	var event sgoEvent
	if err := json.Unmarshal([]byte(eventFixture), &event); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	odd := event.Odds["passing_yards-JALEN_HURTS_1_NFL-game-ou-over"]
	book := odd.ByBookmaker["draftkings"]
	book.OverUnder = ""
	odd.ByBookmaker["draftkings"] = book
	event.Odds["passing_yards-JALEN_HURTS_1_NFL-game-ou-over"] = odd

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	a := &Adapter{name: "sportsgameodds", logger: logger}

	dropped := 0
	records := a.parseEvent(event, "NFL", &dropped)
	if len(records) != 1 || records[0].Line != 245.5 {
		t.Fatalf("expected fair line 245.5, got %+v", records)
	}
}

func TestPlayerName(t *testing.T) {
	tests := []struct {
		playerID   string
		marketName string
		want       string
	}{
		{"JALEN_HURTS_1_NFL", "", "Jalen Hurts"},
		{"DE_AARON_FOX_1_NBA", "", "De Aaron Fox"},
		{"12345", "Josh Allen Passing Yards Over/Under", "Josh Allen Passing Yards Over/Under"},
	}
	for _, tt := range tests {
		if got := playerName(tt.playerID, tt.marketName); got != tt.want {
			t.Errorf("playerName(%q) = %q, want %q", tt.playerID, got, tt.want)
		}
	}
}

func TestParseAmerican(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"-110", intPtr(-110)},
		{"+120", intPtr(120)},
		{"100", intPtr(100)},
		{"", nil},
		{"EV", nil},
	}
	for _, tt := range tests {
		got := parseAmerican(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseAmerican(%q) = %d, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseAmerican(%q) = %v, want %d", tt.in, got, *tt.want)
		}
	}
}

func intPtr(v int) *int { return &v }

func TestTeamsFor(t *testing.T) {
	var event sgoEvent
	if err := json.Unmarshal([]byte(eventFixture), &event); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	if team, opp := event.teamsFor("JALEN_HURTS_1_NFL"); team != "PHI" || opp != "DAL" {
		t.Errorf("home player = %q/%q, want PHI/DAL", team, opp)
	}
	// away side swaps the pair
	event.Players["CEEDEE_LAMB_1_NFL"] = sgoPlayer{TeamID: "DALLAS_COWBOYS_NFL"}
	if team, opp := event.teamsFor("CEEDEE_LAMB_1_NFL"); team != "DAL" || opp != "PHI" {
		t.Errorf("away player = %q/%q, want DAL/PHI", team, opp)
	}
	if team, opp := event.teamsFor("UNKNOWN_PLAYER_1_NFL"); team != "" || opp != "" {
		t.Errorf("missing player entry = %q/%q, want empty", team, opp)
	}
}
