package service

import (
	"context"
	"fmt"
	"time"

	"PropSync/internal/analytics"
	"PropSync/internal/cache"
	"PropSync/internal/model"
	"PropSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// AnalyticsService recomputes the derived snapshot for one
// (player, prop type, season) key. Each invocation touches only its own
// key's row, so calls are safe to run in parallel across keys.
type AnalyticsService struct {
	logger   *logrus.Logger
	logRepo  repository.GameLogRepository
	propRepo repository.PropRepository
	snapRepo repository.SnapshotRepository
	rankRepo repository.RankRepository
	cache    *cache.SnapshotWriter
}

func NewAnalyticsService(
	logger *logrus.Logger,
	logRepo repository.GameLogRepository,
	propRepo repository.PropRepository,
	snapRepo repository.SnapshotRepository,
	rankRepo repository.RankRepository,
	cacheWriter *cache.SnapshotWriter,
) *AnalyticsService {
	return &AnalyticsService{
		logger:   logger,
		logRepo:  logRepo,
		propRepo: propRepo,
		snapRepo: snapRepo,
		rankRepo: rankRepo,
		cache:    cacheWriter,
	}
}

// Recompute rebuilds and atomically replaces the snapshot for one key. A key
// with no game logs is left untouched.
func (s *AnalyticsService) Recompute(ctx context.Context, playerID, propType, season string) error {
	logs, err := s.logRepo.ListForKey(ctx, playerID, propType, season)
	if err != nil {
		return fmt.Errorf("load game logs: %w", err)
	}
	if len(logs) == 0 {
		return nil
	}

	props, err := s.propRepo.ListForKey(ctx, playerID, propType, season)
	if err != nil {
		return fmt.Errorf("load props: %w", err)
	}
	lineByDate := make(map[string]float64, len(props))
	for _, p := range props {
		if _, seen := lineByDate[p.GameDate]; !seen {
			lineByDate[p.GameDate] = p.Line
		}
	}
	var latest *model.CanonicalProp
	if len(props) > 0 {
		latest = props[0]
	}

	// annotate each log with the line active for its date, falling back to
	// the most recent known line
	games := make([]analytics.Game, 0, len(logs))
	for _, l := range logs {
		line := 0.0
		if v, ok := lineByDate[model.NormalizeDate(l.GameDate)]; ok {
			line = v
		} else if latest != nil {
			line = latest.Line
		}
		games = append(games, analytics.Game{
			Value:    l.ActualValue,
			Line:     line,
			Hit:      l.ActualValue >= line,
			Opponent: l.Opponent,
			Date:     l.GameDate,
		})
	}

	league := logs[0].League
	snap := &model.AnalyticsSnapshot{
		CanonicalPlayerID: playerID,
		PropType:          propType,
		Season:            season,
		League:            league,
		SeasonAvg:         analytics.SeasonAverage(games),
		LastUpdated:       time.Now(),
	}

	// hit-based fields need a line; without any prop row they stay empty
	if latest != nil {
		l5 := analytics.HitRate(games, 5)
		l10 := analytics.HitRate(games, 10)
		l20 := analytics.HitRate(games, 20)
		snap.L5Pct, snap.L5Games = l5.Pct, l5.Games
		snap.L10Pct, snap.L10Games = l10.Pct, l10.Games
		snap.L20Pct, snap.L20Games = l20.Pct, l20.Games
		snap.CurrentStreak = analytics.Streak(games)
		snap.EVPercent = analytics.ExpectedValue(
			snap.SeasonAvg, latest.Line, latest.OverOdds, latest.UnderOdds, l5, l10, l20)
	}

	// next opponent: prefer the freshest prop row, fall back to the last
	// played game
	nextOpponent := games[0].Opponent
	if latest != nil && latest.Opponent != "" {
		nextOpponent = latest.Opponent
	}
	snap.H2HAvg, snap.H2HGames = analytics.H2HAverage(games, nextOpponent)

	if nextOpponent != "" {
		rank, err := s.rankRepo.Get(ctx, league, season, propType, nextOpponent)
		if err != nil {
			return fmt.Errorf("load defense rank: %w", err)
		}
		if rank != nil {
			snap.MatchupRank = &rank.Rank
		}
	}

	if err := s.snapRepo.Replace(ctx, snap); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	if err := s.cache.WriteSnapshot(ctx, snap); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"player_id": playerID, "prop_type": propType, "season": season,
		}).Warn("snapshot cache write failed")
	}
	return nil
}
