// Package admin registers the administration API surface.
package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/chat"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/http/api/admin/handlers"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/security"
	"github.com/wealthora/backend/internal/settings"
)

// Deps bundles the shared components the admin surface needs.
type Deps struct {
	DB       *gorm.DB
	JWT      config.JWTConfig
	Chat     *chat.Service
	Settings *settings.Store
	Recorder *activity.Recorder
}

// RegisterRoutes registers admin login and authenticated console routes.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	api := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT, deps.Recorder)
	api.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(adminAuthMiddleware(deps.DB, deps.JWT))

	authed.POST("/users/:id/login-as", authHandler.LoginAsUser)

	mfaHandler := handlers.NewMFAHandler(deps.DB)
	authed.GET("/mfa/status", mfaHandler.Status)
	authed.POST("/mfa/totp/prepare", mfaHandler.PrepareTOTP)
	authed.POST("/mfa/totp/confirm", mfaHandler.ConfirmTOTP)
	authed.POST("/mfa/totp/disable", mfaHandler.DisableTOTP)

	userHandler := handlers.NewUserHandler(deps.DB, deps.Recorder)
	authed.GET("/users", userHandler.List)
	authed.GET("/users/:id", userHandler.Get)
	authed.POST("/users/:id/block", userHandler.Block)
	authed.POST("/users/:id/activate", userHandler.Activate)
	authed.DELETE("/users/:id", userHandler.Delete)
	authed.POST("/users/:id/balance", userHandler.AdjustBalance)
	authed.POST("/users/:id/lucky-draw-chances", userHandler.GrantChances)

	planHandler := handlers.NewPlanHandler(deps.DB, deps.Recorder)
	authed.GET("/plans", planHandler.List)
	authed.POST("/plans", planHandler.Create)
	authed.PUT("/plans/:id", planHandler.Update)
	authed.DELETE("/plans/:id", planHandler.Delete)

	prizeHandler := handlers.NewPrizeHandler(deps.DB)
	authed.GET("/prizes", prizeHandler.List)
	authed.POST("/prizes", prizeHandler.Create)
	authed.PUT("/prizes/:id", prizeHandler.Update)
	authed.DELETE("/prizes/:id", prizeHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(deps.Settings, deps.Recorder)
	authed.GET("/settings", settingsHandler.Get)
	authed.PUT("/settings", settingsHandler.Update)
	authed.DELETE("/settings/:key", settingsHandler.Remove)

	commentHandler := handlers.NewCommentHandler(deps.DB)
	authed.GET("/comments", commentHandler.List)
	authed.POST("/comments", commentHandler.Create)
	authed.PUT("/comments/:id", commentHandler.Update)
	authed.DELETE("/comments/:id", commentHandler.Delete)

	activityHandler := handlers.NewActivityHandler(deps.DB)
	authed.GET("/activity", activityHandler.List)

	chatHandler := handlers.NewChatHandler(deps.Chat)
	authed.GET("/chat/sessions", chatHandler.Sessions)
	authed.GET("/chat/:userID", chatHandler.History)
	authed.POST("/chat/:userID", chatHandler.Send)
	authed.POST("/chat/:userID/read", chatHandler.MarkRead)

	dashboardHandler := handlers.NewDashboardHandler(deps.DB)
	authed.GET("/dashboard/kpi", dashboardHandler.KPI)
}

// adminAuthMiddleware validates admin JWTs and loads the admin into context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
			return
		}

		c.Set("adminID", admin.ID)
		c.Set("adminUsername", admin.Username)
		c.Next()
	}
}
