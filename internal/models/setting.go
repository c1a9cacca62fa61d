package models

import (
	"encoding/json"
	"time"
)

// Setting stores a string-keyed JSON document. Singleton application state
// (site branding, social links, payment settings) lives here rather than in
// dedicated tables.
type Setting struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Document key.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
}
