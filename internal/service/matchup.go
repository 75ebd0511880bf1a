package service

import (
	"context"
	"fmt"
	"time"

	"PropSync/internal/analytics"
	"PropSync/internal/model"
	"PropSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// MatchupService maintains the per-(league, season, prop type) defensive
// rank table from canonical game logs.
type MatchupService struct {
	logger   *logrus.Logger
	logRepo  repository.GameLogRepository
	rankRepo repository.RankRepository
}

func NewMatchupService(logger *logrus.Logger, logRepo repository.GameLogRepository, rankRepo repository.RankRepository) *MatchupService {
	return &MatchupService{logger: logger, logRepo: logRepo, rankRepo: rankRepo}
}

// Recompute rebuilds the rank table for one (league, season, prop type).
func (s *MatchupService) Recompute(ctx context.Context, league, season, propType string) error {
	totals, err := s.logRepo.PerTeamGameTotals(ctx, league, season, propType)
	if err != nil {
		return fmt.Errorf("aggregate allowed totals: %w", err)
	}
	ranked := analytics.DefenseRanks(totals)
	now := time.Now()
	rows := make([]model.DefenseRank, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, model.DefenseRank{
			League:         league,
			Season:         season,
			PropType:       propType,
			Team:           r.Team,
			Rank:           r.Rank,
			GamesTracked:   r.GamesTracked,
			AllowedPerGame: r.AllowedPerGame,
			UpdatedAt:      now,
		})
	}
	if err := s.rankRepo.ReplaceAll(ctx, league, season, propType, rows); err != nil {
		return fmt.Errorf("store defense ranks: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"league": league, "season": season, "prop_type": propType, "teams": len(rows),
	}).Debug("defense ranks recomputed")
	return nil
}

// RecomputeLeague rebuilds ranks for every prop type with logs in a league
// season.
func (s *MatchupService) RecomputeLeague(ctx context.Context, league, season string) error {
	types, err := s.logRepo.DistinctPropTypes(ctx, league, season)
	if err != nil {
		return fmt.Errorf("list prop types: %w", err)
	}
	for _, t := range types {
		if err := s.Recompute(ctx, league, season, t); err != nil {
			return err
		}
	}
	return nil
}
