package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PropSync/internal/adapter"
	"PropSync/internal/config"
	"PropSync/internal/identity"
	"PropSync/internal/interfaces"
	"PropSync/internal/model"
	"PropSync/internal/proptype"
	"PropSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// rowOutcome is the per-row verdict of a batch. One malformed row never
// aborts its batch; it is reported and skipped.
type rowOutcome struct {
	Inserted bool
	Updated  bool
	Rejected bool
	Reason   string
}

// BatchReport aggregates row outcomes for one (provider, league) task.
type BatchReport struct {
	Inserted int
	Updated  int
	Rejected int
	Reasons  []string
}

func (r *BatchReport) add(o rowOutcome) {
	switch {
	case o.Inserted:
		r.Inserted++
	case o.Updated:
		r.Updated++
	case o.Rejected:
		r.Rejected++
		if o.Reason != "" && len(r.Reasons) < 50 {
			r.Reasons = append(r.Reasons, o.Reason)
		}
	}
}

// snapshotKey identifies one analytics recompute unit.
type snapshotKey struct {
	PlayerID string
	PropType string
	Season   string
	League   string
}

// IngestService orchestrates a full ingestion run: fetch per (provider,
// league), resolve identities, normalize prop types, upsert canonical rows,
// then recompute ranks and snapshots for the affected keys only.
type IngestService struct {
	cfg        *config.Config
	logger     *logrus.Logger
	registry   *adapter.ProviderRegistry
	resolver   *identity.Resolver
	normalizer *proptype.Normalizer

	providerRepo repository.ProviderRepository
	propRepo     repository.PropRepository
	logRepo      repository.GameLogRepository

	analytics *AnalyticsService
	matchup   *MatchupService
}

func NewIngestService(
	cfg *config.Config,
	logger *logrus.Logger,
	registry *adapter.ProviderRegistry,
	resolver *identity.Resolver,
	normalizer *proptype.Normalizer,
	providerRepo repository.ProviderRepository,
	propRepo repository.PropRepository,
	logRepo repository.GameLogRepository,
	analyticsSvc *AnalyticsService,
	matchupSvc *MatchupService,
) *IngestService {
	return &IngestService{
		cfg:          cfg,
		logger:       logger,
		registry:     registry,
		resolver:     resolver,
		normalizer:   normalizer,
		providerRepo: providerRepo,
		propRepo:     propRepo,
		logRepo:      logRepo,
		analytics:    analyticsSvc,
		matchup:      matchupSvc,
	}
}

type ingestTask struct {
	provider string
	adapter  interfaces.ProviderAdapter
	league   string
}

// RunAll ingests every enabled provider and league through a bounded worker
// pool, then recomputes derived data for the keys the run touched. Task
// failures are recorded per (provider, league) and never abort the run.
func (s *IngestService) RunAll(ctx context.Context) error {
	tasks, err := s.buildTasks(ctx, nil)
	if err != nil {
		return err
	}
	return s.run(ctx, tasks)
}

// RunProvider ingests a single provider across its configured leagues.
func (s *IngestService) RunProvider(ctx context.Context, name string) error {
	if _, ok := s.registry.Get(name); !ok {
		return fmt.Errorf("unknown provider: %s", name)
	}
	p, err := s.providerRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if p != nil && !p.IsEnabled {
		return fmt.Errorf("provider %s is disabled", name)
	}
	tasks, err := s.buildTasks(ctx, func(provider string) bool { return provider == name })
	if err != nil {
		return err
	}
	return s.run(ctx, tasks)
}

// buildTasks expands the registry into (provider, league) tasks. Providers an
// operator has disabled are skipped, so the toggle holds for scheduled runs
// as well as manual ones.
func (s *IngestService) buildTasks(ctx context.Context, filter func(string) bool) ([]ingestTask, error) {
	enabledRows, err := s.providerRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make(map[string]bool, len(enabledRows))
	for _, p := range enabledRows {
		enabled[p.Name] = true
	}

	var tasks []ingestTask
	for name, ad := range s.registry.All() {
		if filter != nil && !filter(name) {
			continue
		}
		if !enabled[name] {
			s.logger.WithField("provider", name).Warn("provider disabled, skipping")
			continue
		}
		provCfg, ok := s.cfg.Providers[name]
		if !ok {
			continue
		}
		for _, league := range provCfg.Leagues {
			tasks = append(tasks, ingestTask{provider: name, adapter: ad, league: league})
		}
	}
	return tasks, nil
}

func (s *IngestService) run(ctx context.Context, tasks []ingestTask) error {
	if len(tasks) == 0 {
		s.logger.Warn("no ingestion tasks configured")
		return nil
	}

	workers := s.cfg.Sync.WorkerCount
	if workers <= 0 {
		workers = 4
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		affected = make(map[snapshotKey]struct{})
		failed   int
	)
	taskCh := make(chan ingestTask)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				keys, err := s.runTask(ctx, task)
				mu.Lock()
				if err != nil {
					failed++
				}
				for k := range keys {
					affected[k] = struct{}{}
				}
				mu.Unlock()
			}
		}()
	}
	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)
	wg.Wait()

	s.recomputeAffected(ctx, affected)

	s.logger.WithFields(logrus.Fields{
		"tasks": len(tasks), "failed": failed, "affected_keys": len(affected),
	}).Info("ingestion run finished")
	if failed == len(tasks) {
		return errors.New("all ingestion tasks failed")
	}
	return nil
}

// runTask fetches and ingests one (provider, league) pair and records its
// outcome in provider status.
func (s *IngestService) runTask(ctx context.Context, task ingestTask) (map[snapshotKey]struct{}, error) {
	now := time.Now().UTC()
	lookback := s.cfg.Sync.LookbackDays
	if lookback <= 0 {
		lookback = 7
	}
	from := now.AddDate(0, 0, -lookback)
	to := now.AddDate(0, 0, 1)

	log := s.logger.WithFields(logrus.Fields{"provider": task.provider, "league": task.league})

	var (
		propReport BatchReport
		logReport  BatchReport
		keys       map[snapshotKey]struct{}
		runErr     error
	)

	apiCalls := 0
	props, err := task.adapter.FetchProps(ctx, task.league, from, to)
	apiCalls++
	if err != nil {
		runErr = fmt.Errorf("fetch props: %w", err)
	} else {
		s.ingestProps(ctx, task.adapter.SourceTag(), props, &propReport)
	}

	if runErr == nil {
		logs, err := task.adapter.FetchGameLogs(ctx, task.league, from, now)
		apiCalls++
		if err != nil {
			runErr = fmt.Errorf("fetch game logs: %w", err)
		} else {
			keys = s.ingestLogs(ctx, task.adapter.SourceTag(), logs, &logReport)
		}
	}
	if err := s.providerRepo.AddApiUsage(ctx, task.provider, apiCalls); err != nil {
		log.WithError(err).Warn("failed to record api usage")
	}

	status := &model.ProviderStatus{
		Provider:   task.provider,
		League:     task.league,
		LastStatus: "ok",
		PropRows:   propReport.Inserted + propReport.Updated,
		LogRows:    logReport.Inserted,
		Rejected:   propReport.Rejected + logReport.Rejected,
		LastRunAt:  time.Now(),
	}
	if runErr != nil {
		status.LastStatus = "failed"
		status.LastError = runErr.Error()
		log.WithError(runErr).Error("ingestion task failed")
	} else {
		log.WithFields(logrus.Fields{
			"props_inserted": propReport.Inserted, "props_updated": propReport.Updated,
			"logs_inserted": logReport.Inserted, "rejected": status.Rejected,
		}).Info("ingestion task finished")
		for _, reason := range append(propReport.Reasons, logReport.Reasons...) {
			log.WithField("reason", reason).Debug("row rejected")
		}
	}
	if err := s.providerRepo.UpsertStatus(ctx, status); err != nil {
		log.WithError(err).Warn("failed to record provider status")
	}
	return keys, runErr
}

// ingestProps pushes raw prop records through resolution, normalization and
// the conflict-key upsert, one row at a time.
func (s *IngestService) ingestProps(ctx context.Context, sourceTag string, records []model.RawPropRecord, report *BatchReport) {
	for _, rec := range records {
		report.add(s.ingestProp(ctx, sourceTag, rec))
	}
}

func (s *IngestService) ingestProp(ctx context.Context, sourceTag string, rec model.RawPropRecord) rowOutcome {
	if rec.Line <= 0 {
		return rowOutcome{Rejected: true, Reason: fmt.Sprintf("invalid line %.2f for %s", rec.Line, rec.RawName)}
	}
	if rec.EventDate.IsZero() {
		return rowOutcome{Rejected: true, Reason: "missing event date for " + rec.RawName}
	}

	canonicalType, _ := s.normalizer.Normalize(ctx, rec.RawPropType, rec.League, rec.Line)
	if canonicalType == proptype.Unknown {
		return rowOutcome{Rejected: true, Reason: "unknown prop type " + rec.RawPropType}
	}

	playerID, err := s.resolver.Resolve(ctx, sourceTag, rec.SourcePlayerID, rec.RawName, rec.Team, rec.League)
	if err != nil {
		return rowOutcome{Rejected: true, Reason: "identity: " + err.Error()}
	}

	date := model.NormalizeDate(rec.EventDate)
	season := model.SeasonForDate(rec.League, rec.EventDate)
	prop := &model.CanonicalProp{
		ConflictKey:       model.ConflictKey(playerID, date, canonicalType, rec.Bookmaker, rec.League, season),
		CanonicalPlayerID: playerID,
		GameDate:          date,
		PropType:          canonicalType,
		Bookmaker:         rec.Bookmaker,
		League:            rec.League,
		Season:            season,
		Opponent:          identity.CanonicalTeam(rec.Opponent),
		Line:              rec.Line,
		OverOdds:          rec.OverOddsAmerican,
		UnderOdds:         rec.UnderOddsAmerican,
		LastUpdated:       time.Now(),
	}
	inserted, err := s.propRepo.Upsert(ctx, prop)
	if err != nil {
		return rowOutcome{Rejected: true, Reason: "upsert: " + err.Error()}
	}
	return rowOutcome{Inserted: inserted, Updated: !inserted}
}

// ingestLogs writes game logs and returns the set of snapshot keys the new
// rows affected.
func (s *IngestService) ingestLogs(ctx context.Context, sourceTag string, records []model.RawGameLogRecord, report *BatchReport) map[snapshotKey]struct{} {
	keys := make(map[snapshotKey]struct{})
	for _, rec := range records {
		outcome, key := s.ingestLog(ctx, sourceTag, rec)
		report.add(outcome)
		if outcome.Inserted {
			keys[key] = struct{}{}
		}
	}
	return keys
}

func (s *IngestService) ingestLog(ctx context.Context, sourceTag string, rec model.RawGameLogRecord) (rowOutcome, snapshotKey) {
	var key snapshotKey
	if rec.GameID == "" || rec.GameDate.IsZero() {
		return rowOutcome{Rejected: true, Reason: "missing game id or date for " + rec.RawName}, key
	}

	canonicalType, _ := s.normalizer.Normalize(ctx, rec.RawPropType, rec.League, rec.ActualValue)
	if canonicalType == proptype.Unknown {
		return rowOutcome{Rejected: true, Reason: "unknown prop type " + rec.RawPropType}, key
	}

	playerID, err := s.resolver.Resolve(ctx, sourceTag, rec.SourcePlayerID, rec.RawName, rec.Team, rec.League)
	if err != nil {
		return rowOutcome{Rejected: true, Reason: "identity: " + err.Error()}, key
	}

	season := model.SeasonForDate(rec.League, rec.GameDate)
	row := &model.CanonicalGameLog{
		CanonicalPlayerID: playerID,
		PropType:          canonicalType,
		GameID:            rec.GameID,
		ActualValue:       rec.ActualValue,
		Opponent:          identity.CanonicalTeam(rec.Opponent),
		GameDate:          rec.GameDate,
		League:            rec.League,
		Season:            season,
	}
	inserted, err := s.logRepo.Insert(ctx, row)
	if err != nil {
		if errors.Is(err, repository.ErrConflictingActual) {
			return rowOutcome{Rejected: true, Reason: fmt.Sprintf("conflicting actual_value for %s game %s", rec.RawName, rec.GameID)}, key
		}
		return rowOutcome{Rejected: true, Reason: "insert: " + err.Error()}, key
	}
	if !inserted {
		return rowOutcome{Updated: true}, key
	}
	key = snapshotKey{PlayerID: playerID, PropType: canonicalType, Season: season, League: rec.League}
	return rowOutcome{Inserted: true}, key
}

// recomputeAffected refreshes defense ranks for the touched league/season/
// prop-type combinations first, then replaces snapshots for each affected
// key. Snapshot recomputes fan out over the same worker bound.
func (s *IngestService) recomputeAffected(ctx context.Context, affected map[snapshotKey]struct{}) {
	if len(affected) == 0 {
		return
	}

	type rankKey struct{ league, season, propType string }
	rankKeys := make(map[rankKey]struct{})
	for k := range affected {
		rankKeys[rankKey{k.League, k.Season, k.PropType}] = struct{}{}
	}
	for rk := range rankKeys {
		if err := s.matchup.Recompute(ctx, rk.league, rk.season, rk.propType); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"league": rk.league, "season": rk.season, "prop_type": rk.propType,
			}).Error("defense rank recompute failed")
		}
	}

	workers := s.cfg.Sync.WorkerCount
	if workers <= 0 {
		workers = 4
	}
	keyCh := make(chan snapshotKey)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range keyCh {
				if err := s.analytics.Recompute(ctx, k.PlayerID, k.PropType, k.Season); err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"player_id": k.PlayerID, "prop_type": k.PropType, "season": k.Season,
					}).Error("snapshot recompute failed")
				}
			}
		}()
	}
	for k := range affected {
		keyCh <- k
	}
	close(keyCh)
	wg.Wait()
}
