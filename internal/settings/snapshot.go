package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// snapshot holds the in-memory copy of all settings documents.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

// globalSnapshot stores the latest snapshot atomically.
var globalSnapshot atomic.Value // stores snapshot

// init seeds the global snapshot.
func init() {
	globalSnapshot.Store(snapshot{values: map[string]json.RawMessage{}})
}

// storeSnapshot replaces the in-memory snapshot.
func storeSnapshot(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}

	globalSnapshot.Store(snapshot{
		updatedAt: updatedAt.UTC(),
		values:    next,
	})
}

// SnapshotUpdatedAt returns the last refresh timestamp.
func SnapshotUpdatedAt() time.Time {
	return loadSnapshot().updatedAt
}

// SnapshotValue returns a copy of the raw document for a key without touching
// the database. Intended for hot read paths like public branding config.
func SnapshotValue(key string) (json.RawMessage, bool) {
	snap := loadSnapshot()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := snap.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// SnapshotString decodes the snapshot document at key as a string, falling
// back to def when absent or malformed.
func SnapshotString(key, def string) string {
	raw, ok := SnapshotValue(key)
	if !ok || len(raw) == 0 {
		return def
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return def
	}
	return out
}

// loadSnapshot returns the current snapshot with safe defaults.
func loadSnapshot() snapshot {
	v := globalSnapshot.Load()
	snap, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if snap.values == nil {
		return snapshot{updatedAt: snap.updatedAt, values: map[string]json.RawMessage{}}
	}
	return snap
}

// RefreshSnapshot reloads all settings rows from the database and updates the
// in-memory snapshot. Required at process startup; otherwise SnapshotValue
// returns nothing until an admin updates a setting.
func RefreshSnapshot(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("settings: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Setting
	if errFind := db.WithContext(ctx).
		Select("key", "value", "updated_at").
		Order("key ASC").
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	values := make(map[string]json.RawMessage, len(rows))
	maxUpdatedAt := time.Time{}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		values[key] = row.Value
		if rowUpdatedAt := row.UpdatedAt.UTC(); rowUpdatedAt.After(maxUpdatedAt) {
			maxUpdatedAt = rowUpdatedAt
		}
	}

	storeSnapshot(maxUpdatedAt, values)
	return nil
}
