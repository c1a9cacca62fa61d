package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents an end-user account and its financial state.
type User struct {
	ID string `gorm:"type:varchar(16);primaryKey"` // Generated ID of form "ID:" + 6 digits.

	Phone    string `gorm:"type:varchar(32);not null;uniqueIndex"` // Login phone number.
	Password string `gorm:"type:text;not null"`                    // Hashed login password.
	Name     string `gorm:"type:text"`                             // Display name.
	Email    string `gorm:"type:text"`                             // Contact email.

	Balance        float64 `gorm:"type:decimal(20,2);not null;default:0"` // Spendable balance.
	TotalReturns   float64 `gorm:"type:decimal(20,2);not null;default:0"` // Lifetime investment earnings.
	RechargeAmount float64 `gorm:"type:decimal(20,2);not null;default:0"` // Lifetime deposited amount.
	Withdrawals    float64 `gorm:"type:decimal(20,2);not null;default:0"` // Lifetime withdrawn amount.

	IsActive bool `gorm:"not null;default:true"` // Blocked accounts cannot sign in.

	FundPassword string `gorm:"type:text"` // Hashed secondary password for financial actions, empty when unset.

	BankAccount datatypes.JSON `gorm:"type:jsonb"` // Bank account on file, null when absent.

	LuckyDrawChances int `gorm:"not null;default:0"` // Remaining lucky-draw plays.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BankAccount is the JSON payload stored in User.BankAccount.
type BankAccount struct {
	HolderName string `json:"holder_name"`
	BankName   string `json:"bank_name"`
	Number     string `json:"number"`
}

// LoginActivity records a successful sign-in.
type LoginActivity struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`        // Primary key.
	UserID string `gorm:"type:varchar(16);not null;index"` // Owning user ID.

	IP        string `gorm:"type:text"` // Client IP address.
	UserAgent string `gorm:"type:text"` // Client user agent.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Sign-in timestamp.
}

// DailyCheckIn records one check-in per user per calendar day.
type DailyCheckIn struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`                                   // Primary key.
	UserID string `gorm:"type:varchar(16);not null;uniqueIndex:idx_checkin_user_day"` // Owning user ID.
	Day    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_checkin_user_day"` // Calendar day, "2006-01-02".

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Check-in timestamp.
}
