package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// DashboardHandler serves admin dashboard analytics endpoints.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a dashboard handler with database access.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// kpiResponse defines the KPI response payload.
type kpiResponse struct {
	TotalUsers        int64   `json:"total_users"`        // Registered accounts.
	NewUsersToday     int64   `json:"new_users_today"`    // Accounts created since midnight.
	TotalBalance      float64 `json:"total_balance"`      // Sum of all user balances.
	TotalRecharge     float64 `json:"total_recharge"`     // Lifetime deposits across users.
	TotalWithdrawals  float64 `json:"total_withdrawals"`  // Lifetime withdrawals across users.
	ActiveInvestments int64   `json:"active_investments"` // Investment rows still accruing.
	InvestedAmount    float64 `json:"invested_amount"`    // Principal held in investments.
	OpenChats         int64   `json:"open_chats"`         // Sessions with unread user messages.
}

// KPI returns headline numbers for the console landing page.
func (h *DashboardHandler) KPI(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out kpiResponse
	h.db.WithContext(ctx).Model(&models.User{}).Count(&out.TotalUsers)
	h.db.WithContext(ctx).Model(&models.User{}).Where("created_at >= ?", today).Count(&out.NewUsersToday)

	var sums struct {
		Balance     float64
		Recharge    float64
		Withdrawals float64
	}
	h.db.WithContext(ctx).Model(&models.User{}).
		Select("COALESCE(SUM(balance), 0) AS balance, COALESCE(SUM(recharge_amount), 0) AS recharge, COALESCE(SUM(withdrawals), 0) AS withdrawals").
		Scan(&sums)
	out.TotalBalance = sums.Balance
	out.TotalRecharge = sums.Recharge
	out.TotalWithdrawals = sums.Withdrawals

	h.db.WithContext(ctx).Model(&models.Investment{}).
		Where("days_paid < duration").
		Count(&out.ActiveInvestments)
	h.db.WithContext(ctx).Model(&models.Investment{}).
		Select("COALESCE(SUM(invested_amount), 0)").
		Scan(&out.InvestedAmount)

	h.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("admin_unread_count > 0").
		Count(&out.OpenChats)

	c.JSON(http.StatusOK, out)
}
