package repository

import (
	"context"
	"errors"

	"PropSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository persists derived analytics rows. Replace is the only
// write path so a snapshot is never partially patched.
type SnapshotRepository interface {
	Replace(ctx context.Context, snap *model.AnalyticsSnapshot) error
	Get(ctx context.Context, playerID, propType, season string) (*model.AnalyticsSnapshot, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*model.AnalyticsSnapshot, error)
	ListByLeague(ctx context.Context, league string, page, pageSize int) ([]*model.AnalyticsSnapshot, int64, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Replace(ctx context.Context, snap *model.AnalyticsSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "canonical_player_id"}, {Name: "prop_type"}, {Name: "season"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"league",
			"l5_pct", "l5_games", "l10_pct", "l10_games", "l20_pct", "l20_games",
			"current_streak", "h2h_avg", "h2h_games", "season_avg",
			"matchup_rank", "ev_percent", "last_updated",
		}),
	}).Create(snap).Error
}

func (r *snapshotRepository) Get(ctx context.Context, playerID, propType, season string) (*model.AnalyticsSnapshot, error) {
	var row model.AnalyticsSnapshot
	err := r.db.WithContext(ctx).
		Where("canonical_player_id = ? AND prop_type = ? AND season = ?", playerID, propType, season).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *snapshotRepository) ListByPlayer(ctx context.Context, playerID string) ([]*model.AnalyticsSnapshot, error) {
	var rows []*model.AnalyticsSnapshot
	if err := r.db.WithContext(ctx).
		Where("canonical_player_id = ?", playerID).
		Order("season DESC, prop_type ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *snapshotRepository) ListByLeague(ctx context.Context, league string, page, pageSize int) ([]*model.AnalyticsSnapshot, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	q := r.db.WithContext(ctx).Model(&model.AnalyticsSnapshot{}).Where("league = ?", league)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.AnalyticsSnapshot
	if err := q.Order("last_updated DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
