package model

import "time"

// AnalyticsSnapshot is the derived row per (player, prop type, season).
// It is always replaced whole — a reader never observes a mix of old and new
// derived fields. Nullable fields stay nil when the underlying sample is
// empty rather than reporting a fabricated zero.
type AnalyticsSnapshot struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	CanonicalPlayerID string    `gorm:"column:canonical_player_id;type:varchar(80);not null;uniqueIndex:uq_snapshot_key,priority:1"`
	PropType          string    `gorm:"column:prop_type;type:varchar(64);not null;uniqueIndex:uq_snapshot_key,priority:2"`
	Season            string    `gorm:"column:season;type:varchar(8);not null;uniqueIndex:uq_snapshot_key,priority:3"`
	League            string    `gorm:"column:league;type:varchar(16);not null;index"`
	L5Pct             float64   `gorm:"column:l5_pct;type:numeric(6,2)"`
	L5Games           int       `gorm:"column:l5_games;type:int;default:0"`
	L10Pct            float64   `gorm:"column:l10_pct;type:numeric(6,2)"`
	L10Games          int       `gorm:"column:l10_games;type:int;default:0"`
	L20Pct            float64   `gorm:"column:l20_pct;type:numeric(6,2)"`
	L20Games          int       `gorm:"column:l20_games;type:int;default:0"`
	CurrentStreak     int       `gorm:"column:current_streak;type:int;default:0"`
	H2HAvg            *float64  `gorm:"column:h2h_avg;type:numeric(10,2)"`
	H2HGames          int       `gorm:"column:h2h_games;type:int;default:0"`
	SeasonAvg         float64   `gorm:"column:season_avg;type:numeric(10,2)"`
	MatchupRank       *int      `gorm:"column:matchup_rank;type:int"`
	EVPercent         *float64  `gorm:"column:ev_percent;type:numeric(8,2)"`
	LastUpdated       time.Time `gorm:"column:last_updated;type:timestamp;not null"`
}

func (AnalyticsSnapshot) TableName() string { return "analytics_snapshots" }

// DefenseRank is a team's ordinal rank, within a league and for one prop
// type, by average opposing-player production allowed per game. Rank 1 is the
// stingiest defense; ties are broken by team code so ranks are reproducible.
type DefenseRank struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	League         string    `gorm:"column:league;type:varchar(16);not null;uniqueIndex:uq_rank_key,priority:1"`
	Season         string    `gorm:"column:season;type:varchar(8);not null;uniqueIndex:uq_rank_key,priority:2"`
	PropType       string    `gorm:"column:prop_type;type:varchar(64);not null;uniqueIndex:uq_rank_key,priority:3"`
	Team           string    `gorm:"column:team;type:varchar(8);not null;uniqueIndex:uq_rank_key,priority:4"`
	Rank           int       `gorm:"column:rank;type:int;not null"`
	GamesTracked   int       `gorm:"column:games_tracked;type:int;default:0"`
	AllowedPerGame float64   `gorm:"column:allowed_per_game;type:numeric(10,2)"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (DefenseRank) TableName() string { return "defense_ranks" }
