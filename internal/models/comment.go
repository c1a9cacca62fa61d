package models

import "time"

// Comment is an admin-curated testimonial shown on the front surface.
type Comment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Author string `gorm:"type:text;not null"` // Display name of the commenter.
	Body   string `gorm:"type:text;not null"` // Comment text.
	Rating int    `gorm:"not null;default:5"` // Star rating, 1-5.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
