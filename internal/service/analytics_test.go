package service

import (
	"context"
	"math"
	"testing"
	"time"

	"PropSync/internal/model"
	"PropSync/internal/repository"

	"github.com/sirupsen/logrus"
)

type fakeLogRepo struct {
	logs []*model.CanonicalGameLog
}

func (f *fakeLogRepo) Insert(context.Context, *model.CanonicalGameLog) (bool, error) {
	panic("not used")
}
func (f *fakeLogRepo) ListForKey(context.Context, string, string, string) ([]*model.CanonicalGameLog, error) {
	return f.logs, nil
}
func (f *fakeLogRepo) PerTeamGameTotals(context.Context, string, string, string) (map[string]map[string]float64, error) {
	return nil, nil
}
func (f *fakeLogRepo) DistinctPropTypes(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type fakePropRepo struct {
	props []*model.CanonicalProp
}

func (f *fakePropRepo) Upsert(context.Context, *model.CanonicalProp) (bool, error) {
	panic("not used")
}
func (f *fakePropRepo) ListProps(context.Context, repository.PropFilter, int, int) ([]*model.CanonicalProp, int64, error) {
	return nil, 0, nil
}
func (f *fakePropRepo) ListForKey(context.Context, string, string, string) ([]*model.CanonicalProp, error) {
	return f.props, nil
}

type fakeSnapRepo struct {
	replaced []*model.AnalyticsSnapshot
}

func (f *fakeSnapRepo) Replace(_ context.Context, snap *model.AnalyticsSnapshot) error {
	f.replaced = append(f.replaced, snap)
	return nil
}
func (f *fakeSnapRepo) Get(context.Context, string, string, string) (*model.AnalyticsSnapshot, error) {
	return nil, nil
}
func (f *fakeSnapRepo) ListByPlayer(context.Context, string) ([]*model.AnalyticsSnapshot, error) {
	return nil, nil
}
func (f *fakeSnapRepo) ListByLeague(context.Context, string, int, int) ([]*model.AnalyticsSnapshot, int64, error) {
	return nil, 0, nil
}

type fakeRankRepo struct {
	rank *model.DefenseRank
}

func (f *fakeRankRepo) ReplaceAll(context.Context, string, string, string, []model.DefenseRank) error {
	return nil
}
func (f *fakeRankRepo) Get(context.Context, string, string, string, string) (*model.DefenseRank, error) {
	return f.rank, nil
}
func (f *fakeRankRepo) ListByLeague(context.Context, string, string, string) ([]*model.DefenseRank, error) {
	return nil, nil
}

func date(day int) time.Time {
	return time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC)
}

func TestRecomputeReplacesSnapshot(t *testing.T) {
	over, under := -110, -110
	logRepo := &fakeLogRepo{logs: []*model.CanonicalGameLog{
		{ActualValue: 30, Opponent: "MIA", GameDate: date(10), League: "NBA", Season: "2025"},
		{ActualValue: 20, Opponent: "BOS", GameDate: date(8), League: "NBA", Season: "2025"},
		{ActualValue: 25, Opponent: "MIA", GameDate: date(5), League: "NBA", Season: "2025"},
	}}
	propRepo := &fakePropRepo{props: []*model.CanonicalProp{
		{GameDate: "2025-11-12", Line: 24.5, OverOdds: &over, UnderOdds: &under, Opponent: "MIA"},
	}}
	snapRepo := &fakeSnapRepo{}
	rankRepo := &fakeRankRepo{rank: &model.DefenseRank{Rank: 5}}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewAnalyticsService(logger, logRepo, propRepo, snapRepo, rankRepo, nil)

	if err := svc.Recompute(context.Background(), "player-1", "Points", "2025"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(snapRepo.replaced) != 1 {
		t.Fatalf("expected one snapshot replace, got %d", len(snapRepo.replaced))
	}
	snap := snapRepo.replaced[0]

	if snap.CanonicalPlayerID != "player-1" || snap.PropType != "Points" || snap.Season != "2025" || snap.League != "NBA" {
		t.Errorf("snapshot key = %+v", snap)
	}
	// 30 and 25 clear the 24.5 line, 20 does not
	if snap.L5Pct != 66.7 || snap.L5Games != 3 {
		t.Errorf("L5 = (%.1f, %d), want (66.7, 3)", snap.L5Pct, snap.L5Games)
	}
	if snap.L10Games != 3 || snap.L20Games != 3 {
		t.Errorf("window samples = %d/%d, want 3/3", snap.L10Games, snap.L20Games)
	}
	if snap.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", snap.CurrentStreak)
	}
	if snap.SeasonAvg != 25 {
		t.Errorf("SeasonAvg = %.2f, want 25", snap.SeasonAvg)
	}
	// next opponent comes from the freshest prop row
	if snap.H2HAvg == nil || *snap.H2HAvg != 27.5 || snap.H2HGames != 2 {
		t.Errorf("H2H = (%v, %d), want (27.5, 2)", snap.H2HAvg, snap.H2HGames)
	}
	if snap.MatchupRank == nil || *snap.MatchupRank != 5 {
		t.Errorf("MatchupRank = %v, want 5", snap.MatchupRank)
	}
	if snap.EVPercent == nil {
		t.Fatal("EVPercent is nil")
	}
	// hit rate 0.667 vs implied 110/210
	if want := 14.32; math.Abs(*snap.EVPercent-want) > 0.01 {
		t.Errorf("EVPercent = %.2f, want %.2f", *snap.EVPercent, want)
	}
}

func TestRecomputeWithoutLogsIsNoop(t *testing.T) {
	snapRepo := &fakeSnapRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewAnalyticsService(logger, &fakeLogRepo{}, &fakePropRepo{}, snapRepo, &fakeRankRepo{}, nil)

	if err := svc.Recompute(context.Background(), "player-1", "Points", "2025"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(snapRepo.replaced) != 0 {
		t.Error("snapshot must not be written for a key without logs")
	}
}

func TestRecomputeWithoutPropsSkipsHitFields(t *testing.T) {
	logRepo := &fakeLogRepo{logs: []*model.CanonicalGameLog{
		{ActualValue: 12, Opponent: "BOS", GameDate: date(10), League: "NBA", Season: "2025"},
		{ActualValue: 18, Opponent: "BOS", GameDate: date(8), League: "NBA", Season: "2025"},
	}}
	snapRepo := &fakeSnapRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewAnalyticsService(logger, logRepo, &fakePropRepo{}, snapRepo, &fakeRankRepo{}, nil)

	if err := svc.Recompute(context.Background(), "player-1", "Points", "2025"); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if len(snapRepo.replaced) != 1 {
		t.Fatalf("expected one replace, got %d", len(snapRepo.replaced))
	}
	snap := snapRepo.replaced[0]
	if snap.L5Games != 0 || snap.CurrentStreak != 0 || snap.EVPercent != nil {
		t.Errorf("hit-based fields should stay empty without a line: %+v", snap)
	}
	if snap.SeasonAvg != 15 {
		t.Errorf("SeasonAvg = %.2f, want 15", snap.SeasonAvg)
	}
	// falls back to the most recent game's opponent
	if snap.H2HAvg == nil || *snap.H2HAvg != 15 || snap.H2HGames != 2 {
		t.Errorf("H2H = (%v, %d), want (15, 2)", snap.H2HAvg, snap.H2HGames)
	}
}
