package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/security"
)

// testRules mirrors the default business tunables.
var testRules = config.RulesConfig{
	SignupBonus:       30,
	WithdrawalMin:     300,
	WithdrawalTaxRate: 0.08,
	OTPTTLMinutes:     5,
}

var testJWT = config.JWTConfig{
	Secret:           "test-secret",
	UserExpiryHours:  72,
	AdminExpiryHours: 12,
}

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:front_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.User{},
		&models.LoginActivity{},
		&models.DailyCheckIn{},
		&models.Transaction{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.Prize{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ActivityLogEntry{},
		&models.Setting{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func testRecorder(db *gorm.DB) *activity.Recorder {
	return activity.NewRecorder(db)
}

// createTestUser inserts a user with a known password ("secret123") and the
// signup bonus balance.
func createTestUser(t *testing.T, db *gorm.DB, id, phone string) models.User {
	t.Helper()
	hash, errHash := security.HashPassword("secret123")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{
		ID:       id,
		Phone:    phone,
		Password: hash,
		Name:     "Test User",
		Balance:  testRules.SignupBonus,
		IsActive: true,
	}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return user
}

// authRouter returns a gin engine whose routes run with the given user
// already authenticated.
func authRouter(userID string, impersonatorID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("impersonatorID", impersonatorID)
	})
	return router
}

func reloadUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	var user models.User
	if errFind := db.First(&user, "id = ?", id).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	return user
}

func userTransactions(t *testing.T, db *gorm.DB, id string) []models.Transaction {
	t.Helper()
	var rows []models.Transaction
	if errFind := db.Where("user_id = ?", id).Order("id ASC").Find(&rows).Error; errFind != nil {
		t.Fatalf("list transactions: %v", errFind)
	}
	return rows
}
