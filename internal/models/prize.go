package models

import "time"

// Prize types for the lucky-draw wheel.
const (
	PrizeTypeMoney    = "money"    // Credits Amount to the balance.
	PrizeTypeBonus    = "bonus"    // Credits Amount to the balance.
	PrizeTypePhysical = "physical" // Fulfilled outside the ledger.
	PrizeTypeNothing  = "nothing"  // No effect.
)

// WheelSlots is the number of prizes the wheel UI renders. The catalog is not
// constrained to it; the draw is uniform over whatever rows exist.
const WheelSlots = 8

// Prize is a lucky-draw catalog entry.
type Prize struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name   string  `gorm:"type:text;not null"`          // Display name.
	Type   string  `gorm:"type:varchar(16);not null"`   // One of the PrizeType constants.
	Amount float64 `gorm:"type:decimal(20,2);not null"` // Credited value for money/bonus types.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
