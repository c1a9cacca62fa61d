package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/settings"
)

// SettingsHandler handles site configuration endpoints.
type SettingsHandler struct {
	store    *settings.Store
	recorder *activity.Recorder
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(store *settings.Store, recorder *activity.Recorder) *SettingsHandler {
	return &SettingsHandler{store: store, recorder: recorder}
}

// Get returns the current site configuration.
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	var social settings.SocialLinks
	h.store.Get(ctx, settings.SocialLinksKey, &social)
	var payment settings.PaymentSettings
	h.store.Get(ctx, settings.PaymentSettingsKey, &payment)

	c.JSON(http.StatusOK, gin.H{
		"app_name":         h.store.GetString(ctx, settings.AppNameKey, settings.DefaultAppName),
		"app_logo":         h.store.GetString(ctx, settings.AppLogoKey, ""),
		"theme_color":      h.store.GetString(ctx, settings.ThemeColorKey, settings.DefaultThemeColor),
		"social_links":     social,
		"payment_settings": payment,
	})
}

// settingsUpdateRequest defines the request body for configuration updates.
// Nil fields are left untouched.
type settingsUpdateRequest struct {
	AppName         *string                   `json:"app_name"`
	AppLogo         *string                   `json:"app_logo"`
	ThemeColor      *string                   `json:"theme_color"`
	SocialLinks     *settings.SocialLinks     `json:"social_links"`
	PaymentSettings *settings.PaymentSettings `json:"payment_settings"`
}

// Update writes the provided configuration fields.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body settingsUpdateRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx := c.Request.Context()
	updated := make([]string, 0, 5)

	if body.AppName != nil {
		if errSet := h.store.Set(ctx, settings.AppNameKey, strings.TrimSpace(*body.AppName)); errSet != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		updated = append(updated, settings.AppNameKey)
	}
	if body.AppLogo != nil {
		if errSet := h.store.Set(ctx, settings.AppLogoKey, strings.TrimSpace(*body.AppLogo)); errSet != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		updated = append(updated, settings.AppLogoKey)
	}
	if body.ThemeColor != nil {
		if errSet := h.store.Set(ctx, settings.ThemeColorKey, strings.TrimSpace(*body.ThemeColor)); errSet != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		updated = append(updated, settings.ThemeColorKey)
	}
	if body.SocialLinks != nil {
		if errSet := h.store.Set(ctx, settings.SocialLinksKey, body.SocialLinks); errSet != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		updated = append(updated, settings.SocialLinksKey)
	}
	if body.PaymentSettings != nil {
		if errSet := h.store.Set(ctx, settings.PaymentSettingsKey, body.PaymentSettings); errSet != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		updated = append(updated, settings.PaymentSettingsKey)
	}

	if len(updated) > 0 {
		h.recorder.Record(ctx, models.ActorAdmin, readAdminUsernameFromContext(c),
			"settings.update", strings.Join(updated, ", "))
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Remove deletes one configuration key, restoring its default.
func (h *SettingsHandler) Remove(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing key"})
		return
	}

	if errRemove := h.store.Remove(c.Request.Context(), key); errRemove != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c), "settings.remove", key)
	c.JSON(http.StatusOK, gin.H{"removed": key})
}
