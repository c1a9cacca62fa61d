package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wealthora/backend/internal/models"
)

// Store reads and writes string-keyed JSON documents. Reads fail soft: on
// any storage or decode error the provided default is returned and the error
// is logged, never propagated to the caller.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get decodes the document at key into dest. When the key is absent or the
// read fails, dest is left for the caller's default and false is returned.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}

	var row models.Setting
	if errFind := s.db.WithContext(ctx).First(&row, "key = ?", key).Error; errFind != nil {
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			log.WithError(errFind).WithField("key", key).Warn("settings: read failed")
		}
		return false
	}
	if len(row.Value) == 0 {
		return false
	}
	if errUnmarshal := json.Unmarshal(row.Value, dest); errUnmarshal != nil {
		log.WithError(errUnmarshal).WithField("key", key).Warn("settings: decode failed")
		return false
	}
	return true
}

// GetString returns the string document at key, or def when absent.
func (s *Store) GetString(ctx context.Context, key, def string) string {
	var out string
	if !s.Get(ctx, key, &out) {
		return def
	}
	return out
}

// Set encodes value as JSON and upserts it under key, then refreshes the
// in-memory snapshot.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("settings: empty key")
	}

	raw, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return errMarshal
	}

	row := models.Setting{Key: key, Value: raw}
	if errSave := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error; errSave != nil {
		return errSave
	}

	if errRefresh := RefreshSnapshot(ctx, s.db); errRefresh != nil {
		log.WithError(errRefresh).Warn("settings: snapshot refresh failed")
	}
	return nil
}

// Remove deletes the document at key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("settings: empty key")
	}
	if errDelete := s.db.WithContext(ctx).Delete(&models.Setting{}, "key = ?", key).Error; errDelete != nil {
		return errDelete
	}
	if errRefresh := RefreshSnapshot(ctx, s.db); errRefresh != nil {
		log.WithError(errRefresh).Warn("settings: snapshot refresh failed")
	}
	return nil
}
