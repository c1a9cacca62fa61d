// Package front registers the user-facing API surface.
package front

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/chat"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/http/api/front/handlers"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/otp"
	"github.com/wealthora/backend/internal/security"
	"github.com/wealthora/backend/internal/settings"
	"github.com/wealthora/backend/internal/sms"
)

// Deps bundles the shared components the front surface needs.
type Deps struct {
	DB       *gorm.DB
	JWT      config.JWTConfig
	Rules    config.RulesConfig
	Codes    *otp.Service
	Chat     *chat.Service
	Settings *settings.Store
	Recorder *activity.Recorder
	Outbox   *sms.Simulator
}

// RegisterRoutes registers public and authenticated front routes.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.DB == nil {
		return
	}

	front := r.Group("/v0/front")

	authHandler := handlers.NewAuthHandler(deps.DB, deps.JWT, deps.Rules, deps.Codes, deps.Recorder)
	front.POST("/register/otp", authHandler.RequestRegistrationOTP)
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.Login)
	front.POST("/reset-password/otp", authHandler.RequestPasswordResetOTP)
	front.POST("/reset-password", authHandler.ResetPassword)

	publicHandler := handlers.NewPublicHandler(deps.DB, deps.Outbox)
	front.GET("/config", publicHandler.Config)
	front.GET("/comments", publicHandler.Comments)
	front.GET("/sms-outbox", publicHandler.SMSOutbox)

	authed := front.Group("")
	authed.Use(userAuthMiddleware(deps.DB, deps.JWT))

	authed.POST("/logout", authHandler.Logout)

	profileHandler := handlers.NewProfileHandler(deps.DB, deps.Codes, deps.Recorder)
	authed.GET("/profile", profileHandler.Get)
	authed.PUT("/profile/password", profileHandler.ChangePassword)
	authed.POST("/profile/bank-account/otp", profileHandler.RequestBankAccountOTP)
	authed.PUT("/profile/bank-account", profileHandler.UpdateBankAccount)
	authed.POST("/profile/fund-password/otp", profileHandler.RequestFundPasswordOTP)
	authed.PUT("/profile/fund-password", profileHandler.SetFundPassword)
	authed.GET("/profile/login-activity", profileHandler.LoginActivity)

	investHandler := handlers.NewInvestHandler(deps.DB)
	authed.GET("/plans", investHandler.ListPlans)
	authed.POST("/invest", investHandler.Invest)
	authed.GET("/orders", investHandler.Orders)

	fundsHandler := handlers.NewFundsHandler(deps.DB, deps.Rules, deps.Settings, deps.Recorder)
	authed.GET("/payment-info", fundsHandler.PaymentInfo)
	authed.POST("/deposit", fundsHandler.Deposit)
	authed.POST("/withdraw", fundsHandler.Withdraw)
	authed.GET("/transactions", fundsHandler.Transactions)
	authed.POST("/transactions/read", fundsHandler.MarkTransactionsRead)

	luckyDrawHandler := handlers.NewLuckyDrawHandler(deps.DB, deps.Recorder)
	authed.GET("/lucky-draw/prizes", luckyDrawHandler.Prizes)
	authed.POST("/lucky-draw/play", luckyDrawHandler.Play)
	authed.POST("/check-in", luckyDrawHandler.CheckIn)

	chatHandler := handlers.NewChatHandler(deps.Chat)
	authed.GET("/chat", chatHandler.History)
	authed.POST("/chat", chatHandler.Send)
	authed.POST("/chat/read", chatHandler.MarkRead)
}

// userAuthMiddleware validates user JWTs and loads the user into context.
func userAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
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

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if errFind := db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.IsActive && claims.ImpersonatorID == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account blocked"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("impersonatorID", claims.ImpersonatorID)
		c.Next()
	}
}
