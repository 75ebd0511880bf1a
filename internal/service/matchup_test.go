package service

import (
	"context"
	"testing"

	"PropSync/internal/model"

	"github.com/sirupsen/logrus"
)

type recordingRankRepo struct {
	fakeRankRepo
	league, season, propType string
	rows                     []model.DefenseRank
	calls                    int
}

func (r *recordingRankRepo) ReplaceAll(_ context.Context, league, season, propType string, rows []model.DefenseRank) error {
	r.league, r.season, r.propType = league, season, propType
	r.rows = rows
	r.calls++
	return nil
}

type totalsLogRepo struct {
	fakeLogRepo
	totals map[string]map[string]float64
}

func (r *totalsLogRepo) PerTeamGameTotals(context.Context, string, string, string) (map[string]map[string]float64, error) {
	return r.totals, nil
}

func TestMatchupRecomputeReplacesRankSlice(t *testing.T) {
	logRepo := &totalsLogRepo{totals: map[string]map[string]float64{
		"BOS": {"g1": 110, "g2": 120},
		"MIA": {"g1": 100},
	}}
	rankRepo := &recordingRankRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewMatchupService(logger, logRepo, rankRepo)

	if err := svc.Recompute(context.Background(), "NBA", "2025", "Points"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	// the replace is scoped to the recomputed slice key
	if rankRepo.league != "NBA" || rankRepo.season != "2025" || rankRepo.propType != "Points" {
		t.Errorf("replace scope = %s/%s/%s", rankRepo.league, rankRepo.season, rankRepo.propType)
	}
	if len(rankRepo.rows) != 2 {
		t.Fatalf("rank rows = %d, want 2", len(rankRepo.rows))
	}
	if rankRepo.rows[0].Team != "MIA" || rankRepo.rows[0].Rank != 1 {
		t.Errorf("best defense = %s rank %d, want MIA rank 1", rankRepo.rows[0].Team, rankRepo.rows[0].Rank)
	}
}

// A season with no remaining logs still replaces the slice so stale team
// rows disappear.
func TestMatchupRecomputeClearsStaleRanks(t *testing.T) {
	rankRepo := &recordingRankRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewMatchupService(logger, &totalsLogRepo{}, rankRepo)

	if err := svc.Recompute(context.Background(), "NBA", "2025", "Points"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if rankRepo.calls != 1 || len(rankRepo.rows) != 0 {
		t.Errorf("calls = %d rows = %d, want one empty replace", rankRepo.calls, len(rankRepo.rows))
	}
}
