package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/otp"
	"github.com/wealthora/backend/internal/security"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	db       *gorm.DB
	codes    *otp.Service
	recorder *activity.Recorder
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB, codes *otp.Service, recorder *activity.Recorder) *ProfileHandler {
	return &ProfileHandler{db: db, codes: codes, recorder: recorder}
}

// loadUser fetches the authenticated user or writes the failure response.
func (h *ProfileHandler) loadUser(c *gin.Context) (models.User, bool) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.User{}, false
	}

	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return models.User{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return models.User{}, false
	}
	return user, true
}

// Get returns the current user's profile and financial summary.
func (h *ProfileHandler) Get(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var bank *models.BankAccount
	if len(user.BankAccount) > 0 {
		bank = &models.BankAccount{}
		if errDecode := json.Unmarshal(user.BankAccount, bank); errDecode != nil {
			bank = nil
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                 user.ID,
		"phone":              user.Phone,
		"name":               user.Name,
		"email":              user.Email,
		"balance":            user.Balance,
		"total_returns":      user.TotalReturns,
		"recharge_amount":    user.RechargeAmount,
		"withdrawals":        user.Withdrawals,
		"is_active":          user.IsActive,
		"lucky_draw_chances": user.LuckyDrawChances,
		"bank_account":       bank,
		"has_fund_password":  user.FundPassword != "",
		"impersonated":       getImpersonatorID(c) != 0,
		"created_at":         user.CreatedAt,
	})
}

// changePasswordRequest defines the request body for password changes.
type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword verifies and updates the user's login password.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	oldPassword := strings.TrimSpace(body.OldPassword)
	newPassword := strings.TrimSpace(body.NewPassword)
	if oldPassword == "" || newPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing password"})
		return
	}

	if !security.CheckPassword(user.Password, oldPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "old password incorrect"})
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "change password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RequestBankAccountOTP issues a code for changing the bank account on file.
func (h *ProfileHandler) RequestBankAccountOTP(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if _, errIssue := h.codes.Issue(c.Request.Context(), otp.PurposeBankAccount, user.ID); errIssue != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// updateBankAccountRequest defines the request body for bank account updates.
type updateBankAccountRequest struct {
	OTP        string `json:"otp"`
	HolderName string `json:"holder_name"`
	BankName   string `json:"bank_name"`
	Number     string `json:"number"`
}

// UpdateBankAccount replaces the bank account on file after code verification.
func (h *ProfileHandler) UpdateBankAccount(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var body updateBankAccountRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	code := strings.TrimSpace(body.OTP)
	holder := strings.TrimSpace(body.HolderName)
	bankName := strings.TrimSpace(body.BankName)
	number := strings.TrimSpace(body.Number)
	if code == "" || holder == "" || bankName == "" || number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if errConsume := h.codes.Consume(c.Request.Context(), otp.PurposeBankAccount, user.ID, code); errConsume != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": otpErrorMessage(errConsume)})
		return
	}

	raw, errMarshal := json.Marshal(models.BankAccount{
		HolderName: holder,
		BankName:   bankName,
		Number:     number,
	})
	if errMarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode bank account failed"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]any{
		"bank_account": raw,
		"updated_at":   time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update bank account failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, user.ID, "user.bank_account_update", bankName)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RequestFundPasswordOTP issues a code for setting the fund password.
func (h *ProfileHandler) RequestFundPasswordOTP(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if _, errIssue := h.codes.Issue(c.Request.Context(), otp.PurposeFundPassword, user.ID); errIssue != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// setFundPasswordRequest defines the request body for fund password changes.
type setFundPasswordRequest struct {
	OTP          string `json:"otp"`
	FundPassword string `json:"fund_password"`
}

// SetFundPassword sets the secondary financial password after code
// verification.
func (h *ProfileHandler) SetFundPassword(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var body setFundPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	code := strings.TrimSpace(body.OTP)
	fundPassword := strings.TrimSpace(body.FundPassword)
	if code == "" || fundPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if errConsume := h.codes.Consume(c.Request.Context(), otp.PurposeFundPassword, user.ID, code); errConsume != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": otpErrorMessage(errConsume)})
		return
	}

	hash, errHash := security.HashPassword(fundPassword)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash fund password failed"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&user).Updates(map[string]any{
		"fund_password": hash,
		"updated_at":    time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "set fund password failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, user.ID, "user.fund_password_set", "")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LoginActivity lists the user's recent sign-ins, newest first.
func (h *ProfileHandler) LoginActivity(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var rows []models.LoginActivity
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("id DESC").
		Limit(50).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": rows})
}
