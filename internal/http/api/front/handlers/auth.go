package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/otp"
	"github.com/wealthora/backend/internal/security"
	"github.com/wealthora/backend/internal/util"
)

// AuthHandler handles user authentication endpoints.
type AuthHandler struct {
	db       *gorm.DB
	jwtCfg   config.JWTConfig
	rules    config.RulesConfig
	codes    *otp.Service
	recorder *activity.Recorder
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, rules config.RulesConfig, codes *otp.Service, recorder *activity.Recorder) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg, rules: rules, codes: codes, recorder: recorder}
}

// requestOTPRequest defines the request body for code issuance.
type requestOTPRequest struct {
	Phone string `json:"phone"`
}

// RequestRegistrationOTP issues a registration code to a phone number.
func (h *AuthHandler) RequestRegistrationOTP(c *gin.Context) {
	var body requestOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	phone := strings.TrimSpace(body.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing phone"})
		return
	}

	var exists models.User
	if errCheck := h.db.WithContext(c.Request.Context()).Where("phone = ?", phone).First(&exists).Error; errCheck == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
		return
	}

	if _, errIssue := h.codes.Issue(c.Request.Context(), otp.PurposeRegistration, phone); errIssue != nil {
		log.WithError(errIssue).WithField("phone", util.MaskPhone(phone)).Error("issue registration code failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// registerRequest defines the request body for user registration.
type registerRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	OTP      string `json:"otp"`
}

// Register creates a new user account after code verification. The new
// account starts with the signup bonus balance and two seeded transactions.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	phone := strings.TrimSpace(body.Phone)
	password := strings.TrimSpace(body.Password)
	code := strings.TrimSpace(body.OTP)
	if phone == "" || password == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	var exists models.User
	if errCheck := h.db.WithContext(c.Request.Context()).Where("phone = ?", phone).First(&exists).Error; errCheck == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
		return
	}

	// Verify only; the code is invalidated after the insert succeeds so a
	// failed creation does not burn it.
	if errVerify := h.codes.Verify(c.Request.Context(), otp.PurposeRegistration, phone, code); errVerify != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": otpErrorMessage(errVerify)})
		return
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	userID, errID := h.generateUserID(c)
	if errID != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate user id failed"})
		return
	}

	user := models.User{
		ID:       userID,
		Phone:    phone,
		Password: hash,
		Name:     strings.TrimSpace(body.Name),
		Email:    strings.TrimSpace(body.Email),
		Balance:  h.rules.SignupBonus,
		IsActive: true,
	}
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return errCreate
		}
		if errBonus := ledger.Append(tx, user.ID, models.TxTypeBonus, h.rules.SignupBonus, "Signup bonus"); errBonus != nil {
			return errBonus
		}
		return ledger.Append(tx, user.ID, models.TxTypeBonus, 0, "Sign-in reward")
	})
	if errTx != nil {
		if errors.Is(errTx, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
			return
		}
		log.WithError(errTx).WithField("phone", util.MaskPhone(phone)).Error("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}

	if errInvalidate := h.codes.Invalidate(c.Request.Context(), otp.PurposeRegistration, phone); errInvalidate != nil {
		log.WithError(errInvalidate).Warn("registration code cleanup failed")
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, user.ID, "user.register", util.MaskPhone(phone))
	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"phone": user.Phone,
		"name":  user.Name,
	})
}

// generateUserID returns a fresh "ID:" + 6 digit identifier not yet in use.
func (h *AuthHandler) generateUserID(c *gin.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		id, errGen := security.GenerateUserID()
		if errGen != nil {
			return "", errGen
		}
		var count int64
		if errCount := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; errCount != nil {
			return "", errCount
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", errors.New("user id space exhausted")
}

// loginRequest defines the request body for login. Identifier accepts either
// the phone number or the generated user ID.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login authenticates a user and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	identifier := strings.TrimSpace(body.Identifier)
	password := strings.TrimSpace(body.Password)
	if identifier == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing identifier or password"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("phone = ? OR id = ?", identifier, identifier).
		First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	if !security.CheckPassword(user.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account blocked"})
		return
	}

	loginRow := models.LoginActivity{
		UserID:    user.ID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if errLog := h.db.WithContext(c.Request.Context()).Create(&loginRow).Error; errLog != nil {
		log.WithError(errLog).WithField("user", user.ID).Warn("record login activity failed")
	}

	token, errToken := security.GenerateToken(h.jwtCfg.Secret, user.ID, user.Phone, h.jwtCfg.UserExpiry())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, user.ID, "user.login", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":      user.ID,
			"phone":   user.Phone,
			"name":    user.Name,
			"balance": user.Balance,
		},
	})
}

// RequestPasswordResetOTP issues a password reset code to a registered phone.
func (h *AuthHandler) RequestPasswordResetOTP(c *gin.Context) {
	var body requestOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	phone := strings.TrimSpace(body.Phone)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing phone"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Where("phone = ?", phone).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	if _, errIssue := h.codes.Issue(c.Request.Context(), otp.PurposePasswordReset, phone); errIssue != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// resetPasswordRequest defines the request body for password resets.
type resetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword sets a new password after code verification.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	phone := strings.TrimSpace(body.Phone)
	code := strings.TrimSpace(body.OTP)
	newPassword := strings.TrimSpace(body.NewPassword)
	if phone == "" || code == "" || newPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).Where("phone = ?", phone).First(&user).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	if errConsume := h.codes.Consume(c.Request.Context(), otp.PurposePasswordReset, phone, code); errConsume != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": otpErrorMessage(errConsume)})
		return
	}

	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]any{
		"password":   hash,
		"updated_at": time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset password failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, user.ID, "user.password_reset", "")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout ends the current session. With JWTs the client drops the token; the
// response tells it which session remains: an impersonating admin falls back
// to the admin session instead of being fully signed out.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	next := "logged_out"
	if getImpersonatorID(c) != 0 {
		next = "admin"
	}
	h.recorder.Record(c.Request.Context(), models.ActorUser, userID, "user.logout", next)
	c.JSON(http.StatusOK, gin.H{"state": next})
}

// otpErrorMessage maps verification errors onto response messages.
func otpErrorMessage(err error) string {
	switch {
	case errors.Is(err, otp.ErrNotFound):
		return "no verification code requested"
	case errors.Is(err, otp.ErrExpired):
		return "verification code expired"
	case errors.Is(err, otp.ErrMismatch):
		return "incorrect verification code"
	default:
		return "verification failed"
	}
}
