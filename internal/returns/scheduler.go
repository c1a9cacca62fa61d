// Package returns credits daily investment earnings.
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/util"
)

// Scheduler runs the daily accrual over all active investments.
type Scheduler struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
}

// NewScheduler constructs a Scheduler.
func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{db: db, cron: cron.New(), now: time.Now}
}

// Start schedules the accrual at midnight UTC and begins the cron loop.
func (s *Scheduler) Start() error {
	_, errAdd := s.cron.AddFunc("0 0 * * *", func() {
		if errRun := s.Accrue(context.Background()); errRun != nil {
			log.WithError(errRun).Error("daily returns accrual failed")
		}
	})
	if errAdd != nil {
		return fmt.Errorf("returns: schedule: %w", errAdd)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running accrual to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Accrue credits one day of earnings to every investment still inside its
// payout window. Running it twice on the same day is a no-op per investment.
func (s *Scheduler) Accrue(ctx context.Context) error {
	today := util.DayKey(s.now())

	var investments []models.Investment
	if errFind := s.db.WithContext(ctx).Where("days_paid < duration").Find(&investments).Error; errFind != nil {
		return fmt.Errorf("returns: list investments: %w", errFind)
	}

	credited := 0
	for _, inv := range investments {
		if inv.LastPaidAt != nil && util.DayKey(*inv.LastPaidAt) == today {
			continue
		}
		if inv.DailyEarnings <= 0 {
			continue
		}

		errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := s.now()
			result := tx.Model(&models.Investment{}).
				Where("id = ? AND days_paid = ?", inv.ID, inv.DaysPaid).
				Updates(map[string]any{
					"days_paid":     gorm.Expr("days_paid + 1"),
					"total_revenue": gorm.Expr("total_revenue + ?", inv.DailyEarnings),
					"last_paid_at":  now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
			if errUpdate := tx.Model(&models.User{}).
				Where("id = ?", inv.UserID).
				Updates(map[string]any{
					"balance":       gorm.Expr("balance + ?", inv.DailyEarnings),
					"total_returns": gorm.Expr("total_returns + ?", inv.DailyEarnings),
				}).Error; errUpdate != nil {
				return errUpdate
			}
			return ledger.Append(tx, inv.UserID, models.TxTypeEarnings, inv.DailyEarnings,
				fmt.Sprintf("Daily earnings, day %d of %d", inv.DaysPaid+1, inv.Duration))
		})
		if errTx != nil {
			log.WithError(errTx).WithField("investment", inv.ID).Warn("accrual skipped")
			continue
		}
		credited++
	}

	log.WithFields(log.Fields{"eligible": len(investments), "credited": credited}).Info("daily returns accrual complete")
	return nil
}
