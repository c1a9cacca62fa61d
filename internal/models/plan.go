package models

import "time"

// InvestmentPlan is a catalog entry users can invest in. Deleting or editing
// a plan never cascades into existing Investment rows.
type InvestmentPlan struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name          string  `gorm:"type:text;not null"`          // Display name.
	MinInvestment float64 `gorm:"type:decimal(20,2);not null"` // Price of one unit.
	DailyReturn   float64 `gorm:"type:decimal(20,2);not null"` // Earnings per unit per day.
	Duration      int     `gorm:"not null"`                    // Payout period in days.
	Category      string  `gorm:"type:varchar(32)"`            // Catalog grouping.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// Investment aggregates all purchases of one plan by one user. Repeat
// purchases sum into the same row instead of creating new ones.
type Investment struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`                                   // Primary key.
	UserID string `gorm:"type:varchar(16);not null;uniqueIndex:idx_invest_user_plan"` // Owning user ID.
	PlanID uint64 `gorm:"not null;uniqueIndex:idx_invest_user_plan"`                  // Referenced plan ID.

	Quantity       int     `gorm:"not null;default:0"`                    // Units held.
	InvestedAmount float64 `gorm:"type:decimal(20,2);not null;default:0"` // Total paid in.
	DailyEarnings  float64 `gorm:"type:decimal(20,2);not null;default:0"` // Credit per accrual day.
	TotalRevenue   float64 `gorm:"type:decimal(20,2);not null;default:0"` // Earnings credited so far.

	DaysPaid   int        `gorm:"not null;default:0"` // Accrual days already credited.
	Duration   int        `gorm:"not null;default:0"` // Payout window end in accrual days; extended on repeat purchase.
	LastPaidAt *time.Time // Last accrual time, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // First purchase timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last purchase or accrual timestamp.
}
