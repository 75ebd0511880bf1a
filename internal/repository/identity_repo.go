package repository

import (
	"context"
	"errors"

	"PropSync/internal/identity"
	"PropSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IdentityRepository persists player identities, source-id bindings and the
// unresolved side channel. Satisfies identity.Store.
type IdentityRepository interface {
	identity.Store
	GetIdentity(ctx context.Context, canonicalID string) (*model.PlayerIdentity, error)
	ListUnresolved(ctx context.Context, page, pageSize int) ([]*model.UnresolvedIdentity, int64, error)
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) FindCanonicalBySource(ctx context.Context, sourceTag, sourceID string) (string, error) {
	var m model.PlayerSourceMap
	err := r.db.WithContext(ctx).
		Where("source_tag = ? AND source_player_id = ?", sourceTag, sourceID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.CanonicalPlayerID, nil
}

func (r *identityRepository) ListCandidates(ctx context.Context, league, normalizedName string) ([]identity.Candidate, error) {
	var rows []model.PlayerIdentity
	if err := r.db.WithContext(ctx).
		Where("league = ? AND normalized_name = ?", league, normalizedName).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, identity.Candidate{
			CanonicalPlayerID: row.CanonicalPlayerID,
			NormalizedName:    row.NormalizedName,
			Team:              row.Team,
		})
	}
	return out, nil
}

func (r *identityRepository) BindSource(ctx context.Context, sourceTag, sourceID, canonicalID string) error {
	m := &model.PlayerSourceMap{
		SourceTag:         sourceTag,
		SourcePlayerID:    sourceID,
		CanonicalPlayerID: canonicalID,
	}
	// concurrent resolvers race on the unique key; the loser's insert is a no-op
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_tag"}, {Name: "source_player_id"}},
		DoNothing: true,
	}).Create(m).Error
}

func (r *identityRepository) CreateIdentity(ctx context.Context, id model.PlayerIdentity, sourceTag, sourceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "canonical_player_id"}},
			DoNothing: true,
		}).Create(&id).Error; err != nil {
			return err
		}
		m := &model.PlayerSourceMap{
			SourceTag:         sourceTag,
			SourcePlayerID:    sourceID,
			CanonicalPlayerID: id.CanonicalPlayerID,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_tag"}, {Name: "source_player_id"}},
			DoNothing: true,
		}).Create(m).Error
	})
}

func (r *identityRepository) FlagUnresolved(ctx context.Context, row model.UnresolvedIdentity) error {
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *identityRepository) GetIdentity(ctx context.Context, canonicalID string) (*model.PlayerIdentity, error) {
	var row model.PlayerIdentity
	if err := r.db.WithContext(ctx).
		Where("canonical_player_id = ?", canonicalID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *identityRepository) ListUnresolved(ctx context.Context, page, pageSize int) ([]*model.UnresolvedIdentity, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	var total int64
	q := r.db.WithContext(ctx).Model(&model.UnresolvedIdentity{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.UnresolvedIdentity
	if err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
