package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// PrizeHandler handles lucky-draw catalog endpoints.
type PrizeHandler struct {
	db *gorm.DB
}

// NewPrizeHandler constructs a PrizeHandler.
func NewPrizeHandler(db *gorm.DB) *PrizeHandler {
	return &PrizeHandler{db: db}
}

// prizeRequest defines the request body for creating or updating a prize.
type prizeRequest struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// validate checks required fields and the prize type.
func (r *prizeRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.TrimSpace(r.Type)
	if r.Name == "" {
		return errors.New("name is required")
	}
	switch r.Type {
	case models.PrizeTypeMoney, models.PrizeTypeBonus, models.PrizeTypePhysical, models.PrizeTypeNothing:
	default:
		return errors.New("unknown prize type")
	}
	if r.Amount < 0 {
		return errors.New("amount cannot be negative")
	}
	return nil
}

// List returns the full prize catalog and flags slot-count drift.
func (h *PrizeHandler) List(c *gin.Context) {
	var prizes []models.Prize
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&prizes).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list prizes failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prizes":        prizes,
		"wheel_slots":   models.WheelSlots,
		"slots_matched": len(prizes) == models.WheelSlots,
	})
}

// Create adds a prize to the catalog.
func (h *PrizeHandler) Create(c *gin.Context) {
	var body prizeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	prize := models.Prize{Name: body.Name, Type: body.Type, Amount: body.Amount}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&prize).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create prize failed"})
		return
	}
	c.JSON(http.StatusCreated, prize)
}

// Update edits a prize in place.
func (h *PrizeHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body prizeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	var prize models.Prize
	if errFind := h.db.WithContext(c.Request.Context()).First(&prize, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prize not found"})
		return
	}
	prize.Name = body.Name
	prize.Type = body.Type
	prize.Amount = body.Amount
	if errSave := h.db.WithContext(c.Request.Context()).Save(&prize).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update prize failed"})
		return
	}
	c.JSON(http.StatusOK, prize)
}

// Delete removes a prize from the catalog.
func (h *PrizeHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.Prize{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete prize failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "prize not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
