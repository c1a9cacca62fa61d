package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
)

// InvestHandler handles plan catalog and investment endpoints.
type InvestHandler struct {
	db *gorm.DB
}

// NewInvestHandler constructs an InvestHandler.
func NewInvestHandler(db *gorm.DB) *InvestHandler {
	return &InvestHandler{db: db}
}

// errInsufficientBalance aborts a purchase transaction without side effects.
var errInsufficientBalance = errors.New("insufficient balance")

// ListPlans returns the investment plan catalog.
func (h *InvestHandler) ListPlans(c *gin.Context) {
	var plans []models.InvestmentPlan
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&plans).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// investRequest defines the request body for a plan purchase.
type investRequest struct {
	PlanID   uint64 `json:"plan_id"`
	Quantity int    `json:"quantity"`
}

// Invest purchases quantity units of a plan. Repeat purchases of the same
// plan aggregate into the user's existing investment row. The purchase fails
// without any state change when the balance does not cover the cost.
func (h *InvestHandler) Invest(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body investRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.PlanID == 0 || body.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing plan or quantity"})
		return
	}

	var plan models.InvestmentPlan
	if errFind := h.db.WithContext(c.Request.Context()).First(&plan, body.PlanID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	cost := plan.MinInvestment * float64(body.Quantity)
	dailyEarnings := plan.DailyReturn * float64(body.Quantity)

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errUser := tx.First(&user, "id = ?", userID).Error; errUser != nil {
			return errUser
		}
		if user.Balance < cost {
			return errInsufficientBalance
		}

		if errDebit := tx.Model(&user).Update("balance", gorm.Expr("balance - ?", cost)).Error; errDebit != nil {
			return errDebit
		}

		var investment models.Investment
		errFind := tx.Where("user_id = ? AND plan_id = ?", userID, plan.ID).First(&investment).Error
		switch {
		case errFind == nil:
			// Reopen the payout window relative to days already paid, so
			// units bought after maturity still accrue a full plan term.
			updates := map[string]any{
				"quantity":        gorm.Expr("quantity + ?", body.Quantity),
				"invested_amount": gorm.Expr("invested_amount + ?", cost),
				"daily_earnings":  gorm.Expr("daily_earnings + ?", dailyEarnings),
				"duration":        gorm.Expr("days_paid + ?", plan.Duration),
			}
			if errUpdate := tx.Model(&investment).Updates(updates).Error; errUpdate != nil {
				return errUpdate
			}
		case errors.Is(errFind, gorm.ErrRecordNotFound):
			investment = models.Investment{
				UserID:         userID,
				PlanID:         plan.ID,
				Quantity:       body.Quantity,
				InvestedAmount: cost,
				DailyEarnings:  dailyEarnings,
				Duration:       plan.Duration,
			}
			if errCreate := tx.Create(&investment).Error; errCreate != nil {
				return errCreate
			}
		default:
			return errFind
		}

		description := fmt.Sprintf("Invested in %s x%d", plan.Name, body.Quantity)
		return ledger.Append(tx, userID, models.TxTypeInvestment, -cost, description)
	})
	if errTx != nil {
		if errors.Is(errTx, errInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
			return
		}
		log.WithError(errTx).WithField("user", userID).Error("invest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invest failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "cost": cost})
}

// Orders lists the user's investment aggregates with their plan details.
func (h *InvestHandler) Orders(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var investments []models.Investment
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&investments).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	planIDs := make([]uint64, 0, len(investments))
	for _, inv := range investments {
		planIDs = append(planIDs, inv.PlanID)
	}
	plans := map[uint64]models.InvestmentPlan{}
	if len(planIDs) > 0 {
		var rows []models.InvestmentPlan
		if errPlans := h.db.WithContext(c.Request.Context()).Where("id IN ?", planIDs).Find(&rows).Error; errPlans != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		for _, p := range rows {
			plans[p.ID] = p
		}
	}

	out := make([]gin.H, 0, len(investments))
	for _, inv := range investments {
		entry := gin.H{
			"id":              inv.ID,
			"plan_id":         inv.PlanID,
			"quantity":        inv.Quantity,
			"invested_amount": inv.InvestedAmount,
			"daily_earnings":  inv.DailyEarnings,
			"total_revenue":   inv.TotalRevenue,
			"days_paid":       inv.DaysPaid,
			"duration":        inv.Duration,
			"created_at":      inv.CreatedAt,
		}
		if plan, ok := plans[inv.PlanID]; ok {
			entry["plan_name"] = plan.Name
			entry["category"] = plan.Category
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}
