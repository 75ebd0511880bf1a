package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"PropSync/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Store is the persistence the resolver needs. Implemented by
// repository.IdentityRepository; small enough to fake in tests.
type Store interface {
	// FindCanonicalBySource returns "" when the (sourceTag, sourceID) pair
	// has no binding yet.
	FindCanonicalBySource(ctx context.Context, sourceTag, sourceID string) (string, error)
	// ListCandidates returns league-scoped identities whose normalized name
	// matches exactly; the scorer narrows further (team, context).
	ListCandidates(ctx context.Context, league, normalizedName string) ([]Candidate, error)
	BindSource(ctx context.Context, sourceTag, sourceID, canonicalID string) error
	CreateIdentity(ctx context.Context, id model.PlayerIdentity, sourceTag, sourceID string) error
	FlagUnresolved(ctx context.Context, row model.UnresolvedIdentity) error
}

// Resolver maps (sourceTag, sourceID, rawName, team, league) sightings to
// stable canonical player ids. Availability over precision: ambiguity creates
// a provisional identity and a review flag instead of blocking or merging.
type Resolver struct {
	store  Store
	scorer Scorer
	logger *logrus.Logger
}

func NewResolver(store Store, scorer Scorer, logger *logrus.Logger) *Resolver {
	if scorer == nil {
		scorer = ExactScorer{}
	}
	return &Resolver{store: store, scorer: scorer, logger: logger}
}

// Resolve returns the canonical player id for one sighting, creating
// identity and mapping rows as needed.
func (r *Resolver) Resolve(ctx context.Context, sourceTag, sourceID, rawName, team, league string) (string, error) {
	// 1. cheapest, most common path: the source id is already bound
	if canonical, err := r.store.FindCanonicalBySource(ctx, sourceTag, sourceID); err != nil {
		return "", fmt.Errorf("source lookup: %w", err)
	} else if canonical != "" {
		return canonical, nil
	}

	// 2. deterministic normalization of name and team
	normName := NormalizeName(rawName)
	canonTeam := CanonicalTeam(team)
	if normName == "" {
		return "", fmt.Errorf("empty player name from %s/%s", sourceTag, sourceID)
	}

	// 3. league-scoped candidate search
	candidates, err := r.store.ListCandidates(ctx, league, normName)
	if err != nil {
		return "", fmt.Errorf("candidate search: %w", err)
	}
	var matches []Candidate
	for _, c := range candidates {
		if r.scorer.Score(normName, canonTeam, c) >= 1 {
			matches = append(matches, c)
		}
	}

	switch {
	case len(matches) == 1:
		// bind the new source id to the existing identity
		if err := r.store.BindSource(ctx, sourceTag, sourceID, matches[0].CanonicalPlayerID); err != nil {
			return "", fmt.Errorf("bind source: %w", err)
		}
		return matches[0].CanonicalPlayerID, nil

	case len(matches) == 0:
		canonical := uuid.NewString()
		row := model.PlayerIdentity{
			CanonicalPlayerID: canonical,
			DisplayName:       rawName,
			NormalizedName:    normName,
			Team:              canonTeam,
			League:            league,
		}
		if err := r.store.CreateIdentity(ctx, row, sourceTag, sourceID); err != nil {
			return "", fmt.Errorf("create identity: %w", err)
		}
		return canonical, nil

	default:
		// ambiguous: never merge silently. Provisional identity keyed by the
		// source id, flagged for manual reconciliation; ingestion proceeds.
		provisional := sourceTag + ":" + sourceID
		row := model.PlayerIdentity{
			CanonicalPlayerID: provisional,
			DisplayName:       rawName,
			NormalizedName:    normName,
			Team:              canonTeam,
			League:            league,
			Provisional:       true,
		}
		if err := r.store.CreateIdentity(ctx, row, sourceTag, sourceID); err != nil {
			return "", fmt.Errorf("create provisional identity: %w", err)
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"raw_name": rawName, "team": team, "league": league,
		})
		flag := model.UnresolvedIdentity{
			SourceTag:      sourceTag,
			SourcePlayerID: sourceID,
			RawName:        rawName,
			Team:           team,
			League:         league,
			Candidates:     len(matches),
			ProvisionalID:  provisional,
			Payload:        datatypes.JSON(payload),
		}
		if err := r.store.FlagUnresolved(ctx, flag); err != nil {
			r.logger.WithError(err).WithField("provisional_id", provisional).Warn("failed to record unresolved identity")
		}
		r.logger.WithFields(logrus.Fields{
			"source":     sourceTag + "/" + sourceID,
			"name":       normName,
			"league":     league,
			"candidates": len(matches),
		}).Warn("ambiguous identity, created provisional id")
		return provisional, nil
	}
}
