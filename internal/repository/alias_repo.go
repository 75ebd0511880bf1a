package repository

import (
	"context"
	"encoding/json"

	"PropSync/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AliasRepository owns the prop-type alias table and its unresolved side
// channel. Satisfies proptype.AliasStore.
type AliasRepository interface {
	LoadAliases(ctx context.Context) (map[string]string, error)
	RecordUnresolved(ctx context.Context, rawValue, league string, line float64, reason string) error
	SeedAliases(ctx context.Context, seed map[string]string) error
	ListUnresolved(ctx context.Context, page, pageSize int) ([]*model.UnresolvedPropType, int64, error)
}

type aliasRepository struct {
	db *gorm.DB
}

func NewAliasRepository(db *gorm.DB) AliasRepository {
	return &aliasRepository{db: db}
}

func (r *aliasRepository) LoadAliases(ctx context.Context) (map[string]string, error) {
	var rows []model.PropTypeAlias
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Alias] = row.CanonicalType
	}
	return out, nil
}

// SeedAliases inserts the curated bootstrap list, leaving operator-edited
// rows alone.
func (r *aliasRepository) SeedAliases(ctx context.Context, seed map[string]string) error {
	rows := make([]model.PropTypeAlias, 0, len(seed))
	for alias, canonical := range seed {
		rows = append(rows, model.PropTypeAlias{Alias: alias, CanonicalType: canonical})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		DoNothing: true,
	}).CreateInBatches(rows, 100).Error
}

func (r *aliasRepository) RecordUnresolved(ctx context.Context, rawValue, league string, line float64, reason string) error {
	payload, _ := json.Marshal(map[string]interface{}{"raw_value": rawValue, "line": line})
	row := model.UnresolvedPropType{
		RawValue: rawValue,
		League:   league,
		Line:     line,
		Reason:   reason,
		Payload:  datatypes.JSON(payload),
	}
	// repeated sightings of the same raw value bump a counter instead of
	// piling up duplicate rows
	res := r.db.WithContext(ctx).Model(&model.UnresolvedPropType{}).
		Where("raw_value = ? AND league = ?", rawValue, league).
		UpdateColumn("sightings", gorm.Expr("sightings + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *aliasRepository) ListUnresolved(ctx context.Context, page, pageSize int) ([]*model.UnresolvedPropType, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	var total int64
	q := r.db.WithContext(ctx).Model(&model.UnresolvedPropType{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.UnresolvedPropType
	if err := q.Order("sightings DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
