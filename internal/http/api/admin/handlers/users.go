package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	dbutil "github.com/wealthora/backend/internal/db"
	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB, recorder *activity.Recorder) *UserHandler {
	return &UserHandler{db: db, recorder: recorder}
}

// errBalanceBelowZero aborts an adjustment that would overdraw the account.
var errBalanceBelowZero = errors.New("balance cannot go negative")

// userListQuery defines query parameters for listing users.
type userListQuery struct {
	Q     string `form:"q"`                // Matches ID, phone, or name.
	Page  int    `form:"page,default=1"`   // Page number.
	Limit int    `form:"limit,default=20"` // Page size.
}

// List returns users, newest first, with optional search and pagination.
func (h *UserHandler) List(c *gin.Context) {
	var q userListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if search := strings.TrimSpace(q.Q); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		query = query.Where(
			fmt.Sprintf("%s OR %s OR %s",
				dbutil.CaseInsensitiveLikeExpr(h.db, "id"),
				dbutil.CaseInsensitiveLikeExpr(h.db, "phone"),
				dbutil.CaseInsensitiveLikeExpr(h.db, "name")),
			pattern, pattern, pattern)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	var rows []models.User
	offset := (q.Page - 1) * q.Limit
	if errFind := query.Order("created_at DESC").Offset(offset).Limit(q.Limit).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, userSummary(row))
	}
	c.JSON(http.StatusOK, gin.H{
		"users": out,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

// Get returns one user with bank account and investment details.
func (h *UserHandler) Get(c *gin.Context) {
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", strings.TrimSpace(c.Param("id"))).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	detail := userSummary(user)
	if len(user.BankAccount) > 0 {
		var bank models.BankAccount
		if errDecode := json.Unmarshal(user.BankAccount, &bank); errDecode == nil {
			detail["bank_account"] = bank
		}
	}

	var investments []models.Investment
	if errFind := h.db.WithContext(c.Request.Context()).Where("user_id = ?", user.ID).Find(&investments).Error; errFind == nil {
		detail["investments"] = investments
	}

	c.JSON(http.StatusOK, detail)
}

// Block deactivates a user account.
func (h *UserHandler) Block(c *gin.Context) {
	h.setActive(c, false, "user.block")
}

// Activate re-enables a user account.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true, "user.activate")
}

// setActive flips the IsActive flag and records the action.
func (h *UserHandler) setActive(c *gin.Context, active bool, action string) {
	userID := strings.TrimSpace(c.Param("id"))
	result := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c), action, fmt.Sprintf("user %s", userID))
	c.JSON(http.StatusOK, gin.H{"id": userID, "is_active": active})
}

// Delete removes a user and its dependent rows.
func (h *UserHandler) Delete(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if errDel := tx.Where("user_id = ?", userID).Delete(&models.Transaction{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("user_id = ?", userID).Delete(&models.Investment{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("user_id = ?", userID).Delete(&models.LoginActivity{}).Error; errDel != nil {
			return errDel
		}
		if errDel := tx.Where("user_id = ?", userID).Delete(&models.DailyCheckIn{}).Error; errDel != nil {
			return errDel
		}
		var session models.ChatSession
		if errFind := tx.Where("user_id = ?", userID).First(&session).Error; errFind == nil {
			if errDel := tx.Where("session_id = ?", session.ID).Delete(&models.ChatMessage{}).Error; errDel != nil {
				return errDel
			}
			if errDel := tx.Delete(&session).Error; errDel != nil {
				return errDel
			}
		}
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c), "user.delete", fmt.Sprintf("user %s", userID))
	c.JSON(http.StatusOK, gin.H{"deleted": userID})
}

// adjustBalanceRequest defines the request body for manual balance changes.
type adjustBalanceRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// AdjustBalance credits or debits a user balance with a ledger entry.
func (h *UserHandler) AdjustBalance(c *gin.Context) {
	var body adjustBalanceRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be non-zero"})
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	description := strings.TrimSpace(body.Description)
	if description == "" {
		description = "Balance adjustment"
	}

	var newBalance float64
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errFind := tx.First(&user, "id = ?", userID).Error; errFind != nil {
			return errFind
		}
		if user.Balance+body.Amount < 0 {
			return errBalanceBelowZero
		}
		newBalance = user.Balance + body.Amount
		if errUpdate := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", body.Amount)).Error; errUpdate != nil {
			return errUpdate
		}
		return ledger.Append(tx, userID, models.TxTypeAdjustment, body.Amount, description)
	})
	if errTx != nil {
		switch {
		case errors.Is(errTx, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(errTx, errBalanceBelowZero):
			c.JSON(http.StatusBadRequest, gin.H{"error": "balance cannot go negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "adjust failed"})
		}
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"user.adjust_balance", fmt.Sprintf("user %s amount %.2f", userID, body.Amount))
	c.JSON(http.StatusOK, gin.H{"id": userID, "balance": newBalance})
}

// grantChancesRequest defines the request body for granting draw plays.
type grantChancesRequest struct {
	Count int `json:"count"`
}

// GrantChances adds lucky-draw plays to a user account.
func (h *UserHandler) GrantChances(c *gin.Context) {
	var body grantChancesRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Count <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be positive"})
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	result := h.db.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ?", userID).
		Update("lucky_draw_chances", gorm.Expr("lucky_draw_chances + ?", body.Count))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"user.grant_chances", fmt.Sprintf("user %s count %d", userID, body.Count))
	c.JSON(http.StatusOK, gin.H{"id": userID, "granted": body.Count})
}

// userSummary maps a user row to its console representation.
func userSummary(user models.User) gin.H {
	return gin.H{
		"id":                 user.ID,
		"phone":              user.Phone,
		"name":               user.Name,
		"email":              user.Email,
		"balance":            user.Balance,
		"total_returns":      user.TotalReturns,
		"recharge_amount":    user.RechargeAmount,
		"withdrawals":        user.Withdrawals,
		"is_active":          user.IsActive,
		"has_fund_password":  user.FundPassword != "",
		"lucky_draw_chances": user.LuckyDrawChances,
		"created_at":         user.CreatedAt,
	}
}
