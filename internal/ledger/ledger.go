// Package ledger writes transaction rows. Entries are append-only; nothing
// here ever updates or deletes an existing row.
package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// Append writes one transaction for a user inside the caller's transaction.
func Append(tx *gorm.DB, userID, txType string, amount float64, description string) error {
	row := models.Transaction{
		UserID:      userID,
		RefID:       uuid.NewString(),
		Type:        txType,
		Amount:      amount,
		Description: description,
	}
	if errCreate := tx.Create(&row).Error; errCreate != nil {
		return fmt.Errorf("ledger: append: %w", errCreate)
	}
	return nil
}

// Broadcast appends a zero-amount system transaction to every user. Used to
// deliver catalog announcements through the transaction feed.
func Broadcast(tx *gorm.DB, description string) error {
	var ids []string
	if errPluck := tx.Model(&models.User{}).Pluck("id", &ids).Error; errPluck != nil {
		return fmt.Errorf("ledger: list users: %w", errPluck)
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.Transaction{
			UserID:      id,
			RefID:       uuid.NewString(),
			Type:        models.TxTypeSystem,
			Amount:      0,
			Description: description,
		})
	}
	if errCreate := tx.CreateInBatches(rows, 200).Error; errCreate != nil {
		return fmt.Errorf("ledger: broadcast: %w", errCreate)
	}
	return nil
}
