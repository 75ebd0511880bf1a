package model

import (
	"time"

	"gorm.io/datatypes"
)

// PropTypeAlias maps one raw, source-specific prop label to the closed
// canonical taxonomy. Bidirectional pairs are stored as two independent rows
// so lookups are O(1) in either direction. Append-only reference data, seeded
// from a curated list and extended by operators reviewing unresolved flags.
type PropTypeAlias struct {
	Alias         string    `gorm:"column:alias;type:varchar(96);primaryKey"`
	CanonicalType string    `gorm:"column:canonical_type;type:varchar(64);not null"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (PropTypeAlias) TableName() string { return "prop_type_aliases" }

// UnresolvedPropType records a raw prop-type string the normalizer could not
// classify, together with the line that accompanied it, for offline
// alias-table curation. Unknown types never reach the canonical tables.
type UnresolvedPropType struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RawValue  string         `gorm:"column:raw_value;type:varchar(96);not null"`
	League    string         `gorm:"column:league;type:varchar(16);not null"`
	Line      float64        `gorm:"column:line;type:numeric(10,2)"`
	Reason    string         `gorm:"column:reason;type:varchar(16);not null"` // sentinel / none
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb"`
	Sightings int            `gorm:"column:sightings;type:int;default:1"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (UnresolvedPropType) TableName() string { return "unresolved_prop_types" }
