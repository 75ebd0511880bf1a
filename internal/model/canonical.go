package model

import (
	"strconv"
	"strings"
	"time"
)

// CanonicalProp is one reconciled prop line: one row per
// (player, date, prop type, bookmaker, league, season), identified by
// ConflictKey. Line, odds, opponent and last_updated are the only mutable
// fields; created_at survives re-ingestion.
type CanonicalProp struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ConflictKey       string    `gorm:"column:conflict_key;type:varchar(256);uniqueIndex;not null"`
	CanonicalPlayerID string    `gorm:"column:canonical_player_id;type:varchar(80);not null;index"`
	GameDate          string    `gorm:"column:game_date;type:varchar(10);not null;index:idx_props_league_date,priority:2"`
	PropType          string    `gorm:"column:prop_type;type:varchar(64);not null"`
	Bookmaker         string    `gorm:"column:bookmaker;type:varchar(48);not null"`
	League            string    `gorm:"column:league;type:varchar(16);not null;index:idx_props_league_date,priority:1"`
	Season            string    `gorm:"column:season;type:varchar(8);not null"`
	Opponent          string    `gorm:"column:opponent;type:varchar(8)"`
	Line              float64   `gorm:"column:line;type:numeric(10,2);not null"`
	OverOdds          *int      `gorm:"column:over_odds;type:int"`
	UnderOdds         *int      `gorm:"column:under_odds;type:int"`
	LastUpdated       time.Time `gorm:"column:last_updated;type:timestamp;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (CanonicalProp) TableName() string { return "canonical_props" }

// CanonicalGameLog is one reconciled per-game performance row. Append-only:
// a (player, prop type, game) key is never overwritten with a different
// actual_value, since that indicates a source error rather than an update.
type CanonicalGameLog struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	CanonicalPlayerID string    `gorm:"column:canonical_player_id;type:varchar(80);not null;uniqueIndex:uq_log_player_prop_game;index:idx_logs_key,priority:1"`
	PropType          string    `gorm:"column:prop_type;type:varchar(64);not null;uniqueIndex:uq_log_player_prop_game;index:idx_logs_key,priority:2"`
	GameID            string    `gorm:"column:game_id;type:varchar(64);not null;uniqueIndex:uq_log_player_prop_game"`
	ActualValue       float64   `gorm:"column:actual_value;type:numeric(10,2);not null"`
	Opponent          string    `gorm:"column:opponent;type:varchar(8);index"`
	GameDate          time.Time `gorm:"column:game_date;type:timestamp;not null"`
	League            string    `gorm:"column:league;type:varchar(16);not null;index"`
	Season            string    `gorm:"column:season;type:varchar(8);not null;index:idx_logs_key,priority:3"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (CanonicalGameLog) TableName() string { return "canonical_game_logs" }

// DateLayout is the normalized event-date form used inside conflict keys.
const DateLayout = "2006-01-02"

// ConflictKey builds the deterministic composite key that identifies "the
// same logical prop row" across repeated ingestions. Inputs are assumed
// already canonical; the date must be in DateLayout form.
func ConflictKey(playerID, gameDate, propType, bookmaker, league, season string) string {
	return strings.Join([]string{playerID, gameDate, propType, bookmaker, league, season}, "|")
}

// NormalizeDate flattens an event timestamp to the conflict-key date form.
func NormalizeDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SeasonForDate attributes a game date to a season label per league
// convention. Football games in January/February belong to the prior year's
// season (playoffs); basketball and hockey seasons span the new year and are
// labeled by their starting autumn; baseball is the calendar year.
func SeasonForDate(league string, t time.Time) string {
	u := t.UTC()
	y, m := u.Year(), int(u.Month())
	switch strings.ToUpper(league) {
	case "NFL", "NCAAF":
		if m <= 2 {
			y--
		}
	case "NBA", "NHL", "NCAAB":
		if m <= 9 {
			y--
		}
	}
	return strconv.Itoa(y)
}
