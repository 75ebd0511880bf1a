package interfaces

import (
	"context"
	"time"

	"PropSync/internal/config"
	"PropSync/internal/model"

	"github.com/sirupsen/logrus"
)

// ProviderAdapter is the contract every external feed must implement.
// Adapters do pure fetch + parse + validate: provider JSON in, internal DTOs
// out. Unparseable records are dropped and counted, never defaulted.
type ProviderAdapter interface {
	Name() string
	SourceTag() string
	// FetchProps returns prop lines for one league and date range.
	FetchProps(ctx context.Context, league string, from, to time.Time) ([]model.RawPropRecord, error)
	// FetchGameLogs returns finished-game performance rows for one league
	// and date range. Adapters without a stats feed return an empty slice.
	FetchGameLogs(ctx context.Context, league string, from, to time.Time) ([]model.RawGameLogRecord, error)
}

// AdapterFactory builds one adapter instance from its provider config.
// Adapter packages register theirs via adapter.Register in init.
type AdapterFactory func(name string, cfg *config.ProviderConfig, logger *logrus.Logger) (ProviderAdapter, error)
