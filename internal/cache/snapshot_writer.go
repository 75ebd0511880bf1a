package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PropSync/internal/model"

	"github.com/redis/go-redis/v9"
)

// SnapshotTTL bounds staleness if a recompute is missed; the store remains
// the source of truth.
const SnapshotTTL = 12 * time.Hour

// SnapshotWriter mirrors freshly computed analytics snapshots into redis so
// the serving layer can read hot keys without touching the store. Nil-safe:
// a nil writer drops every call, which keeps redis optional.
type SnapshotWriter struct {
	client *redis.Client
}

func NewSnapshotWriter(client *redis.Client) *SnapshotWriter {
	if client == nil {
		return nil
	}
	return &SnapshotWriter{client: client}
}

func snapshotKey(playerID, propType, season string) string {
	return fmt.Sprintf("snapshot:%s:%s:%s", playerID, propType, season)
}

// WriteSnapshot stores one snapshot row under its composite key.
func (w *SnapshotWriter) WriteSnapshot(ctx context.Context, snap *model.AnalyticsSnapshot) error {
	if w == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	key := snapshotKey(snap.CanonicalPlayerID, snap.PropType, snap.Season)
	return w.client.Set(ctx, key, data, SnapshotTTL).Err()
}

// ReadSnapshot returns the cached row, or nil on a miss.
func (w *SnapshotWriter) ReadSnapshot(ctx context.Context, playerID, propType, season string) (*model.AnalyticsSnapshot, error) {
	if w == nil {
		return nil, nil
	}
	data, err := w.client.Get(ctx, snapshotKey(playerID, propType, season)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap model.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
