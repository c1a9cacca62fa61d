// Package activity appends audit rows for auth events and admin actions.
package activity

import (
	"context"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// Recorder writes activity log entries. Recording is best effort: a failed
// write is logged and never fails the triggering operation.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a Recorder.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends one entry.
func (r *Recorder) Record(ctx context.Context, actorType, actor, action, detail string) {
	entry := models.ActivityLogEntry{
		Actor:     actor,
		ActorType: actorType,
		Action:    action,
		Detail:    detail,
	}
	if errCreate := r.db.WithContext(ctx).Create(&entry).Error; errCreate != nil {
		log.WithError(errCreate).WithFields(log.Fields{
			"actor":  actor,
			"action": action,
		}).Warn("activity: record failed")
	}
}
