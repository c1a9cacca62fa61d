package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/security"
)

// AuthHandler handles admin authentication and impersonation endpoints.
type AuthHandler struct {
	db       *gorm.DB
	jwtCfg   config.JWTConfig
	recorder *activity.Recorder
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, recorder *activity.Recorder) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg, recorder: recorder}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login authenticates an admin. When TOTP is enrolled the one-time code is
// required in the same request.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	password := strings.TrimSpace(body.Password)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error; errFind != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !admin.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin account is disabled"})
		return
	}

	if !security.CheckPassword(admin.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if strings.TrimSpace(admin.TOTPSecret) != "" {
		code := strings.TrimSpace(body.Code)
		if code == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "totp code required", "mfa_required": true})
			return
		}
		if !totp.Validate(code, admin.TOTPSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
			return
		}
	}

	token, errToken := security.GenerateAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, h.jwtCfg.AdminExpiry())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, admin.Username, "admin.login", "")
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":             admin.ID,
			"username":       admin.Username,
			"is_super_admin": admin.IsSuperAdmin,
		},
	})
}

// LoginAsUser issues a user token that records the acting admin, so the
// console can browse the account exactly as the user sees it.
func (h *AuthHandler) LoginAsUser(c *gin.Context) {
	adminID, ok := readAdminIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}

	userID := strings.TrimSpace(c.Param("id"))
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	token, errToken := security.GenerateImpersonationToken(h.jwtCfg.Secret, user.ID, user.Phone, adminID, h.jwtCfg.UserExpiry())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorAdmin, readAdminUsernameFromContext(c),
		"admin.impersonate", fmt.Sprintf("user %s", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
		},
	})
}
