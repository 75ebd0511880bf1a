package model

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerIdentity is the single stable identity a player is known by,
// regardless of how many source-specific ids map to it.
// CanonicalPlayerID is a uuid, or "sourceTag:sourceID" for provisional rows
// created on ambiguity. Rows are never renamed and never deleted; the only
// mutation is appending new source mappings.
type PlayerIdentity struct {
	CanonicalPlayerID string    `gorm:"column:canonical_player_id;type:varchar(80);primaryKey"`
	DisplayName       string    `gorm:"column:display_name;type:varchar(128);not null"`
	NormalizedName    string    `gorm:"column:normalized_name;type:varchar(128);not null;index:idx_identity_league_name"`
	Team              string    `gorm:"column:team;type:varchar(8)"`
	League            string    `gorm:"column:league;type:varchar(16);not null;index:idx_identity_league_name,priority:1"`
	Provisional       bool      `gorm:"column:provisional;type:boolean;default:false"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt         time.Time `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (PlayerIdentity) TableName() string { return "player_identities" }

// PlayerSourceMap binds one provider-specific player id to a canonical id.
// (source_tag, source_player_id) is unique: a source id belongs to exactly
// one canonical player.
type PlayerSourceMap struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	SourceTag         string    `gorm:"column:source_tag;type:varchar(32);not null;uniqueIndex:uq_source_player"`
	SourcePlayerID    string    `gorm:"column:source_player_id;type:varchar(64);not null;uniqueIndex:uq_source_player"`
	CanonicalPlayerID string    `gorm:"column:canonical_player_id;type:varchar(80);not null;index"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (PlayerSourceMap) TableName() string { return "player_source_maps" }

// UnresolvedIdentity is the manual-reconciliation side channel: one row per
// ambiguous or otherwise suspicious sighting. Ingestion never blocks on these.
type UnresolvedIdentity struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	SourceTag      string         `gorm:"column:source_tag;type:varchar(32);not null"`
	SourcePlayerID string         `gorm:"column:source_player_id;type:varchar(64);not null"`
	RawName        string         `gorm:"column:raw_name;type:varchar(128);not null"`
	Team           string         `gorm:"column:team;type:varchar(32)"`
	League         string         `gorm:"column:league;type:varchar(16);not null"`
	Candidates     int            `gorm:"column:candidates;type:int;default:0"`
	ProvisionalID  string         `gorm:"column:provisional_id;type:varchar(80)"`
	Payload        datatypes.JSON `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (UnresolvedIdentity) TableName() string { return "unresolved_identities" }
