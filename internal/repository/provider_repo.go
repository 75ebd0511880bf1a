package repository

import (
	"context"
	"errors"
	"time"

	"PropSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProviderRepository persists provider registrations and per-(provider,
// league) run status.
type ProviderRepository interface {
	EnsureProvider(ctx context.Context, p *model.Provider) error
	GetByName(ctx context.Context, name string) (*model.Provider, error)
	ListEnabled(ctx context.Context) ([]*model.Provider, error)
	AddApiUsage(ctx context.Context, name string, calls int) error
	UpsertStatus(ctx context.Context, status *model.ProviderStatus) error
	ListStatuses(ctx context.Context) ([]*model.ProviderStatus, error)
}

type providerRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

// EnsureProvider registers a provider if unknown; an existing row keeps its
// operator-set enablement and usage counters.
func (r *providerRepository) EnsureProvider(ctx context.Context, p *model.Provider) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(p).Error
}

func (r *providerRepository) GetByName(ctx context.Context, name string) (*model.Provider, error) {
	var row model.Provider
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *providerRepository) ListEnabled(ctx context.Context) ([]*model.Provider, error) {
	var rows []*model.Provider
	if err := r.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *providerRepository) AddApiUsage(ctx context.Context, name string, calls int) error {
	return r.db.WithContext(ctx).Model(&model.Provider{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"current_api_usage": gorm.Expr("current_api_usage + ?", calls),
			"updated_at":        time.Now(),
		}).Error
}

func (r *providerRepository) UpsertStatus(ctx context.Context, status *model.ProviderStatus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "league"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_status", "last_error", "prop_rows", "log_rows", "rejected", "last_run_at"}),
	}).Create(status).Error
}

func (r *providerRepository) ListStatuses(ctx context.Context) ([]*model.ProviderStatus, error) {
	var rows []*model.ProviderStatus
	if err := r.db.WithContext(ctx).
		Order("provider ASC, league ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
