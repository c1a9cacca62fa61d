package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/security"
	"github.com/wealthora/backend/internal/settings"
)

// FundsHandler handles deposits, withdrawals and the transaction feed.
type FundsHandler struct {
	db       *gorm.DB
	rules    config.RulesConfig
	store    *settings.Store
	recorder *activity.Recorder
}

// NewFundsHandler constructs a FundsHandler.
func NewFundsHandler(db *gorm.DB, rules config.RulesConfig, store *settings.Store, recorder *activity.Recorder) *FundsHandler {
	return &FundsHandler{db: db, rules: rules, store: store, recorder: recorder}
}

// amountRequest defines the request body for deposits and withdrawals.
type amountRequest struct {
	Amount       float64 `json:"amount"`
	FundPassword string  `json:"fund_password"`
}

// PaymentInfo returns the deposit instructions configured by the admin.
func (h *FundsHandler) PaymentInfo(c *gin.Context) {
	var payment settings.PaymentSettings
	h.store.Get(c.Request.Context(), settings.PaymentSettingsKey, &payment)
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// Deposit credits the user's balance. Amount floors are a UI concern; this
// layer only rejects non-positive amounts.
func (h *FundsHandler) Deposit(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body amountRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errCredit := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"balance":         gorm.Expr("balance + ?", body.Amount),
			"recharge_amount": gorm.Expr("recharge_amount + ?", body.Amount),
		}).Error; errCredit != nil {
			return errCredit
		}
		description := fmt.Sprintf("Deposit of %.2f", body.Amount)
		return ledger.Append(tx, userID, models.TxTypeDeposit, body.Amount, description)
	})
	if errTx != nil {
		log.WithError(errTx).WithField("user", userID).Error("deposit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deposit failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, userID, "user.deposit", fmt.Sprintf("%.2f", body.Amount))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Withdraw pays out from the balance. It requires a bank account on file, an
// amount at or above the configured minimum, and sufficient balance. The
// reported tax is informational: the balance is debited by the full amount
// and nothing else.
func (h *FundsHandler) Withdraw(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body amountRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	if body.Amount < h.rules.WithdrawalMin {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("minimum withdrawal is %.0f", h.rules.WithdrawalMin)})
		return
	}

	tax := body.Amount * h.rules.WithdrawalTaxRate

	var failure string
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errUser := tx.First(&user, "id = ?", userID).Error; errUser != nil {
			return errUser
		}
		if len(user.BankAccount) == 0 {
			failure = "no bank account on file"
			return errWithdrawalRejected
		}
		if user.FundPassword != "" && !security.CheckPassword(user.FundPassword, body.FundPassword) {
			failure = "fund password incorrect"
			return errWithdrawalRejected
		}
		if body.Amount > user.Balance {
			failure = "insufficient balance"
			return errWithdrawalRejected
		}

		if errDebit := tx.Model(&user).Updates(map[string]any{
			"balance":     gorm.Expr("balance - ?", body.Amount),
			"withdrawals": gorm.Expr("withdrawals + ?", body.Amount),
		}).Error; errDebit != nil {
			return errDebit
		}
		description := fmt.Sprintf("Withdrawal of %.2f (tax %.2f)", body.Amount, tax)
		return ledger.Append(tx, userID, models.TxTypeWithdrawal, -body.Amount, description)
	})
	if errTx != nil {
		if errors.Is(errTx, errWithdrawalRejected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": failure})
			return
		}
		log.WithError(errTx).WithField("user", userID).Error("withdrawal failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, userID, "user.withdrawal", fmt.Sprintf("%.2f", body.Amount))
	c.JSON(http.StatusOK, gin.H{"ok": true, "amount": body.Amount, "tax": tax})
}

// errWithdrawalRejected aborts a withdrawal transaction without side effects.
var errWithdrawalRejected = errors.New("withdrawal rejected")

// Transactions lists the user's ledger, newest first, with the unread count.
func (h *FundsHandler) Transactions(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var rows []models.Transaction
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(200).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	var unread int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.Transaction{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": rows, "unread": unread})
}

// MarkTransactionsRead flags every transaction of the user as seen.
func (h *FundsHandler) MarkTransactionsRead(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&models.Transaction{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
