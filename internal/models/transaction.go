package models

import "time"

// Transaction types recorded in the ledger.
const (
	TxTypeBonus      = "bonus"      // Signup and sign-in reward credits.
	TxTypeDeposit    = "deposit"    // Balance top-up.
	TxTypeWithdrawal = "withdrawal" // Balance payout.
	TxTypeInvestment = "investment" // Plan purchase debit.
	TxTypeEarnings   = "earnings"   // Daily investment return credit.
	TxTypeLuckyDraw  = "lucky_draw" // Lucky-draw prize credit.
	TxTypeAdjustment = "adjustment" // Manual admin balance change.
	TxTypeSystem     = "system"     // Zero-amount notification entry.
)

// Transaction is an append-only ledger entry; rows are never updated except
// for the Read flag, and never deleted.
type Transaction struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`        // Primary key, newest first when listing.
	UserID string `gorm:"type:varchar(16);not null;index"` // Owning user ID.

	RefID       string  `gorm:"type:varchar(36);not null"`   // External reference ID.
	Type        string  `gorm:"type:varchar(16);not null"`   // One of the TxType constants.
	Amount      float64 `gorm:"type:decimal(20,2);not null"` // Signed amount, negative for debits.
	Description string  `gorm:"type:text"`                   // Human-readable detail.

	Read bool `gorm:"not null;default:false"` // Whether the user has seen this entry.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Entry timestamp.
}
