package proptype

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"
)

// Confidence classifies how a canonical prop type was obtained.
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"     // alias table hit
	ConfidenceSentinel  Confidence = "sentinel"  // raw value carries no stat information
	ConfidenceHeuristic Confidence = "heuristic" // inferred from line magnitude
	ConfidenceNone      Confidence = "none"      // unresolved
)

// sentinels are raw values some books emit that name the bet format rather
// than the stat. They are never guessed at; the raw value and line go to the
// curation channel so an operator can register an alias.
var sentinels = map[string]struct{}{
	"over under":  {},
	"o u":         {},
	"overunder":   {},
	"player prop": {},
	"prop":        {},
}

// AliasStore is the persistence the normalizer needs. Implemented by
// repository.AliasRepository.
type AliasStore interface {
	// LoadAliases returns the full alias table as stripped-alias -> canonical.
	LoadAliases(ctx context.Context) (map[string]string, error)
	RecordUnresolved(ctx context.Context, rawValue, league string, line float64, reason string) error
}

// Normalizer maps raw provider prop-type strings into the closed taxonomy.
// The alias map is loaded once at construction and refreshed on a schedule;
// reads vastly outnumber refreshes so a RWMutex is enough.
type Normalizer struct {
	store  AliasStore
	logger *logrus.Logger

	mu      sync.RWMutex
	aliases map[string]string
}

func NewNormalizer(ctx context.Context, store AliasStore, logger *logrus.Logger) (*Normalizer, error) {
	n := &Normalizer{store: store, logger: logger}
	if err := n.Refresh(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

// Refresh reloads the alias table. Called from cron so operator-added rows
// take effect without a restart.
func (n *Normalizer) Refresh(ctx context.Context) error {
	aliases, err := n.store.LoadAliases(ctx)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.aliases = aliases
	n.mu.Unlock()
	n.logger.WithField("aliases", len(aliases)).Debug("prop-type alias table refreshed")
	return nil
}

// Strip lowercases raw and collapses punctuation and whitespace runs to
// single spaces. Exported so alias seeding and tests share the exact rule.
func Strip(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize resolves a raw prop-type string for a league. The line is only
// consulted for sentinel and unknown inputs.
func (n *Normalizer) Normalize(ctx context.Context, raw, league string, line float64) (string, Confidence) {
	stripped := Strip(raw)
	if stripped == "" {
		return Unknown, ConfidenceNone
	}

	n.mu.RLock()
	canonical, ok := n.aliases[stripped]
	n.mu.RUnlock()
	if ok {
		return canonical, ConfidenceExact
	}

	if _, isSentinel := sentinels[stripped]; isSentinel {
		n.flagUnresolved(ctx, raw, league, line, string(ConfidenceSentinel))
		return Unknown, ConfidenceSentinel
	}

	if guess := guessByLine(league, line); guess != "" {
		return guess, ConfidenceHeuristic
	}

	n.flagUnresolved(ctx, raw, league, line, string(ConfidenceNone))
	return Unknown, ConfidenceNone
}

func (n *Normalizer) flagUnresolved(ctx context.Context, raw, league string, line float64, reason string) {
	if err := n.store.RecordUnresolved(ctx, raw, league, line, reason); err != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"raw_value": raw, "league": league,
		}).Warn("failed to record unresolved prop type")
	}
}

// SeedAliases returns a copy of the curated bootstrap list for first-run
// population of the alias table.
func SeedAliases() map[string]string {
	out := make(map[string]string, len(seedAliases))
	for k, v := range seedAliases {
		out[k] = v
	}
	return out
}
