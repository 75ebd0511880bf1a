package repository

import (
	"context"
	"errors"

	"PropSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropRepository persists canonical prop lines keyed by conflict_key.
type PropRepository interface {
	// Upsert inserts the row or, on a conflict_key collision, updates only
	// the mutable columns. Reports whether a new row was created.
	Upsert(ctx context.Context, prop *model.CanonicalProp) (inserted bool, err error)
	ListProps(ctx context.Context, filter PropFilter, page, pageSize int) ([]*model.CanonicalProp, int64, error)
	// ListForKey returns all dated prop rows for one (player, prop type,
	// season), most recent first.
	ListForKey(ctx context.Context, playerID, propType, season string) ([]*model.CanonicalProp, error)
}

// PropFilter narrows prop listings for the serving layer.
type PropFilter struct {
	League   string
	PlayerID string
	PropType string
	FromDate string // inclusive, DateLayout form
	ToDate   string
}

type propRepository struct {
	db *gorm.DB
}

func NewPropRepository(db *gorm.DB) PropRepository {
	return &propRepository{db: db}
}

func (r *propRepository) Upsert(ctx context.Context, prop *model.CanonicalProp) (bool, error) {
	// DO NOTHING keeps the outcome observable: on Postgres a DO UPDATE
	// returns a row either way, so RowsAffected could not tell an insert
	// from a conflict. Here RowsAffected > 0 means the row is new.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conflict_key"}},
		DoNothing: true,
	}).Create(prop)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// conflict path: refresh only the mutable columns, created_at stays
	if err := r.db.WithContext(ctx).Model(&model.CanonicalProp{}).
		Where("conflict_key = ?", prop.ConflictKey).
		Updates(map[string]interface{}{
			"line":         prop.Line,
			"over_odds":    prop.OverOdds,
			"under_odds":   prop.UnderOdds,
			"opponent":     prop.Opponent,
			"last_updated": prop.LastUpdated,
		}).Error; err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(prop).
		Where("conflict_key = ?", prop.ConflictKey).
		Select("id").First(prop).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return false, nil
}

func (r *propRepository) ListProps(ctx context.Context, filter PropFilter, page, pageSize int) ([]*model.CanonicalProp, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	q := r.db.WithContext(ctx).Model(&model.CanonicalProp{})
	if filter.League != "" {
		q = q.Where("league = ?", filter.League)
	}
	if filter.PlayerID != "" {
		q = q.Where("canonical_player_id = ?", filter.PlayerID)
	}
	if filter.PropType != "" {
		q = q.Where("prop_type = ?", filter.PropType)
	}
	if filter.FromDate != "" {
		q = q.Where("game_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		q = q.Where("game_date <= ?", filter.ToDate)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.CanonicalProp
	if err := q.Order("game_date DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *propRepository) ListForKey(ctx context.Context, playerID, propType, season string) ([]*model.CanonicalProp, error) {
	var rows []*model.CanonicalProp
	if err := r.db.WithContext(ctx).
		Where("canonical_player_id = ? AND prop_type = ? AND season = ?", playerID, propType, season).
		Order("game_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
