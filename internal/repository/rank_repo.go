package repository

import (
	"context"
	"errors"

	"PropSync/internal/model"

	"gorm.io/gorm"
)

// RankRepository persists defensive matchup ranks per
// (league, season, prop type, team).
type RankRepository interface {
	// ReplaceAll swaps the whole (league, season, prop type) rank slice for
	// the given rows in one transaction; teams no longer present disappear.
	ReplaceAll(ctx context.Context, league, season, propType string, ranks []model.DefenseRank) error
	Get(ctx context.Context, league, season, propType, team string) (*model.DefenseRank, error)
	ListByLeague(ctx context.Context, league, season, propType string) ([]*model.DefenseRank, error)
}

type rankRepository struct {
	db *gorm.DB
}

func NewRankRepository(db *gorm.DB) RankRepository {
	return &rankRepository{db: db}
}

func (r *rankRepository) ReplaceAll(ctx context.Context, league, season, propType string, ranks []model.DefenseRank) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("league = ? AND season = ? AND prop_type = ?", league, season, propType).
			Delete(&model.DefenseRank{}).Error; err != nil {
			return err
		}
		if len(ranks) == 0 {
			return nil
		}
		return tx.CreateInBatches(ranks, 100).Error
	})
}

func (r *rankRepository) Get(ctx context.Context, league, season, propType, team string) (*model.DefenseRank, error) {
	var row model.DefenseRank
	err := r.db.WithContext(ctx).
		Where("league = ? AND season = ? AND prop_type = ? AND team = ?", league, season, propType, team).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *rankRepository) ListByLeague(ctx context.Context, league, season, propType string) ([]*model.DefenseRank, error) {
	var rows []*model.DefenseRank
	if err := r.db.WithContext(ctx).
		Where("league = ? AND season = ? AND prop_type = ?", league, season, propType).
		Order("rank ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
