package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/settings"
	"github.com/wealthora/backend/internal/sms"
)

// PublicHandler serves unauthenticated front endpoints.
type PublicHandler struct {
	db     *gorm.DB
	outbox *sms.Simulator
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(db *gorm.DB, outbox *sms.Simulator) *PublicHandler {
	return &PublicHandler{db: db, outbox: outbox}
}

// Config returns the branding and social link documents from the settings
// snapshot.
func (h *PublicHandler) Config(c *gin.Context) {
	var social settings.SocialLinks
	if raw, ok := settings.SnapshotValue(settings.SocialLinksKey); ok {
		_ = json.Unmarshal(raw, &social)
	}

	c.JSON(http.StatusOK, gin.H{
		"app_name":     settings.SnapshotString(settings.AppNameKey, settings.DefaultAppName),
		"app_logo":     settings.SnapshotString(settings.AppLogoKey, ""),
		"theme_color":  settings.SnapshotString(settings.ThemeColorKey, settings.DefaultThemeColor),
		"social_links": social,
		"updated_at":   settings.SnapshotUpdatedAt(),
	})
}

// Comments lists testimonial comments, newest first.
func (h *PublicHandler) Comments(c *gin.Context) {
	var rows []models.Comment
	if errFind := h.db.WithContext(c.Request.Context()).Order("id DESC").Limit(100).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": rows})
}

// SMSOutbox exposes the simulated SMS channel so development clients can read
// delivered codes. It has no production equivalent.
func (h *PublicHandler) SMSOutbox(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.outbox.Visible()})
}
