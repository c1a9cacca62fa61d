package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// ActivityHandler handles audit log endpoints.
type ActivityHandler struct {
	db *gorm.DB
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// activityListQuery defines query parameters for listing audit entries.
type activityListQuery struct {
	Actor     string `form:"actor"`            // Exact actor match.
	ActorType string `form:"actor_type"`       // admin, user, or system.
	Action    string `form:"action"`           // Exact action match.
	Page      int    `form:"page,default=1"`   // Page number.
	Limit     int    `form:"limit,default=50"` // Page size.
}

// List returns audit entries, newest first, with optional filters.
func (h *ActivityHandler) List(c *gin.Context) {
	var q activityListQuery
	if errBind := c.ShouldBindQuery(&q); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 200 {
		q.Limit = 50
	}

	query := h.db.WithContext(c.Request.Context()).Model(&models.ActivityLogEntry{})
	if actor := strings.TrimSpace(q.Actor); actor != "" {
		query = query.Where("actor = ?", actor)
	}
	if actorType := strings.TrimSpace(q.ActorType); actorType != "" {
		query = query.Where("actor_type = ?", actorType)
	}
	if action := strings.TrimSpace(q.Action); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list activity failed"})
		return
	}

	var entries []models.ActivityLogEntry
	offset := (q.Page - 1) * q.Limit
	if errFind := query.Order("id DESC").Offset(offset).Limit(q.Limit).Find(&entries).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list activity failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    q.Page,
		"limit":   q.Limit,
	})
}
