package models

import "time"

// Activity actor types.
const (
	ActorAdmin  = "admin"
	ActorUser   = "user"
	ActorSystem = "system"
)

// ActivityLogEntry is an append-only audit record of a notable action.
type ActivityLogEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Actor     string `gorm:"type:varchar(64);not null;index"` // Acting identity (admin username or user ID).
	ActorType string `gorm:"type:varchar(8);not null"`        // One of the Actor constants.
	Action    string `gorm:"type:varchar(64);not null"`       // Short action name, e.g. "user.block".
	Detail    string `gorm:"type:text"`                       // Free-form context.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Event timestamp.
}
