package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
)

// PlanHandler handles investment plan catalog endpoints.
type PlanHandler struct {
	db       *gorm.DB
	recorder *activity.Recorder
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(db *gorm.DB, recorder *activity.Recorder) *PlanHandler {
	return &PlanHandler{db: db, recorder: recorder}
}

// planRequest defines the request body for creating or updating a plan.
type planRequest struct {
	Name          string  `json:"name"`
	MinInvestment float64 `json:"min_investment"`
	DailyReturn   float64 `json:"daily_return"`
	Duration      int     `json:"duration"`
	Category      string  `json:"category"`
}

// validate checks required fields and value ranges.
func (r *planRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.MinInvestment <= 0 {
		return errors.New("min_investment must be positive")
	}
	if r.DailyReturn < 0 {
		return errors.New("daily_return cannot be negative")
	}
	if r.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	return nil
}

// List returns all plans, newest first.
func (h *PlanHandler) List(c *gin.Context) {
	var plans []models.InvestmentPlan
	if errFind := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&plans).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// Create adds a plan and announces it to every user via the transaction feed.
func (h *PlanHandler) Create(c *gin.Context) {
	var body planRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	plan := models.InvestmentPlan{
		Name:          body.Name,
		MinInvestment: body.MinInvestment,
		DailyReturn:   body.DailyReturn,
		Duration:      body.Duration,
		Category:      strings.TrimSpace(body.Category),
	}
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&plan).Error; errCreate != nil {
			return errCreate
		}
		return ledger.Broadcast(tx, fmt.Sprintf("New investment plan available: %s", plan.Name))
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"plan.create", fmt.Sprintf("plan %d (%s)", plan.ID, plan.Name))
	c.JSON(http.StatusCreated, plan)
}

// Update edits a plan and announces the change. Existing investments keep
// the terms they were bought under.
func (h *PlanHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body planRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	var plan models.InvestmentPlan
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errFind := tx.First(&plan, id).Error; errFind != nil {
			return errFind
		}
		plan.Name = body.Name
		plan.MinInvestment = body.MinInvestment
		plan.DailyReturn = body.DailyReturn
		plan.Duration = body.Duration
		plan.Category = strings.TrimSpace(body.Category)
		if errSave := tx.Save(&plan).Error; errSave != nil {
			return errSave
		}
		return ledger.Broadcast(tx, fmt.Sprintf("Investment plan updated: %s", plan.Name))
	})
	if errTx != nil {
		if errors.Is(errTx, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update plan failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"plan.update", fmt.Sprintf("plan %d (%s)", plan.ID, plan.Name))
	c.JSON(http.StatusOK, plan)
}

// Delete removes a plan from the catalog. Investments bought under it keep
// accruing on their stored terms.
func (h *PlanHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.InvestmentPlan{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete plan failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"plan.delete", fmt.Sprintf("plan %d", id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
