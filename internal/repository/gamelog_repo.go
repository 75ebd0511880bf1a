package repository

import (
	"context"
	"errors"
	"math"

	"PropSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrConflictingActual marks a game-log row whose (player, prop type, game)
// key already exists with a different actual_value. That is a source error;
// the stored row wins.
var ErrConflictingActual = errors.New("game log exists with different actual value")

// GameLogRepository persists append-only canonical game logs and the
// aggregates the defense-rank recompute reads.
type GameLogRepository interface {
	// Insert adds the row if its key is new. A duplicate with the same
	// actual_value is a no-op; a duplicate with a different value returns
	// ErrConflictingActual. Reports whether a row was created.
	Insert(ctx context.Context, log *model.CanonicalGameLog) (inserted bool, err error)
	ListForKey(ctx context.Context, playerID, propType, season string) ([]*model.CanonicalGameLog, error)
	// PerTeamGameTotals sums opposing-player production per (defending team,
	// game) for a league, season and prop type.
	PerTeamGameTotals(ctx context.Context, league, season, propType string) (map[string]map[string]float64, error)
	// DistinctPropTypes lists the prop types with logs for a league season.
	DistinctPropTypes(ctx context.Context, league, season string) ([]string, error)
}

type gameLogRepository struct {
	db *gorm.DB
}

func NewGameLogRepository(db *gorm.DB) GameLogRepository {
	return &gameLogRepository{db: db}
}

func (r *gameLogRepository) Insert(ctx context.Context, log *model.CanonicalGameLog) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canonical_player_id"}, {Name: "prop_type"}, {Name: "game_id"}},
		DoNothing: true,
	}).Create(log)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var existing model.CanonicalGameLog
	if err := r.db.WithContext(ctx).
		Where("canonical_player_id = ? AND prop_type = ? AND game_id = ?",
			log.CanonicalPlayerID, log.PropType, log.GameID).
		First(&existing).Error; err != nil {
		return false, err
	}
	if math.Abs(existing.ActualValue-log.ActualValue) > 1e-9 {
		return false, ErrConflictingActual
	}
	return false, nil
}

func (r *gameLogRepository) ListForKey(ctx context.Context, playerID, propType, season string) ([]*model.CanonicalGameLog, error) {
	var rows []*model.CanonicalGameLog
	if err := r.db.WithContext(ctx).
		Where("canonical_player_id = ? AND prop_type = ? AND season = ?", playerID, propType, season).
		Order("game_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gameLogRepository) PerTeamGameTotals(ctx context.Context, league, season, propType string) (map[string]map[string]float64, error) {
	type row struct {
		Opponent string
		GameID   string
		Total    float64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.CanonicalGameLog{}).
		Select("opponent, game_id, SUM(actual_value) AS total").
		Where("league = ? AND season = ? AND prop_type = ? AND opponent <> ''", league, season, propType).
		Group("opponent, game_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]map[string]float64)
	for _, r := range rows {
		if out[r.Opponent] == nil {
			out[r.Opponent] = make(map[string]float64)
		}
		out[r.Opponent][r.GameID] = r.Total
	}
	return out, nil
}

func (r *gameLogRepository) DistinctPropTypes(ctx context.Context, league, season string) ([]string, error) {
	var types []string
	if err := r.db.WithContext(ctx).Model(&model.CanonicalGameLog{}).
		Distinct("prop_type").
		Where("league = ? AND season = ?", league, season).
		Pluck("prop_type", &types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
