package model

import "time"

// Provider is one external odds/stat feed. Ingestion refuses disabled providers.
type Provider struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;type:varchar(32);uniqueIndex;not null"`
	SourceTag       string    `gorm:"column:source_tag;type:varchar(32);not null"`
	ApiUrl          string    `gorm:"column:api_url;type:varchar(256)"`
	ApiLimit        int       `gorm:"column:api_limit;type:int;default:600"`
	CurrentApiUsage int       `gorm:"column:current_api_usage;type:int;default:0"`
	IsEnabled       bool      `gorm:"column:is_enabled;type:boolean;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (Provider) TableName() string { return "providers" }

// ProviderStatus records the outcome of the last ingestion task per
// (provider, league). Surfaced to operators; a failed task never aborts
// the other tasks of a run.
type ProviderStatus struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Provider   string    `gorm:"column:provider;type:varchar(32);not null;uniqueIndex:uq_provider_league"`
	League     string    `gorm:"column:league;type:varchar(16);not null;uniqueIndex:uq_provider_league"`
	LastStatus string    `gorm:"column:last_status;type:varchar(16);not null"` // ok / failed
	LastError  string    `gorm:"column:last_error;type:text"`
	PropRows   int       `gorm:"column:prop_rows;type:int;default:0"`
	LogRows    int       `gorm:"column:log_rows;type:int;default:0"`
	Rejected   int       `gorm:"column:rejected;type:int;default:0"`
	LastRunAt  time.Time `gorm:"column:last_run_at;type:timestamp;default:now()"`
}

func (ProviderStatus) TableName() string { return "provider_statuses" }
