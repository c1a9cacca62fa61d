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

var testJWT = config.JWTConfig{
	Secret:           "test-secret",
	UserExpiryHours:  72,
	AdminExpiryHours: 12,
}

func setupAdminDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Transaction{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.Prize{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ActivityLogEntry{},
		&models.LoginActivity{},
		&models.DailyCheckIn{},
		&models.Setting{},
		&models.Comment{},
	); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func testRecorder(db *gorm.DB) *activity.Recorder {
	return activity.NewRecorder(db)
}

func createTestAdmin(t *testing.T, db *gorm.DB, username string) models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword("admin-secret")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	admin := models.Admin{Username: username, Password: hash, Active: true, IsSuperAdmin: true}
	if errCreate := db.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}
	return admin
}

func createEndUser(t *testing.T, db *gorm.DB, id, phone string, balance float64) models.User {
	t.Helper()
	user := models.User{ID: id, Phone: phone, Password: "x", Balance: balance, IsActive: true}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return user
}

// adminRouter returns a gin engine whose routes run as the given admin.
func adminRouter(admin models.Admin) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("adminID", admin.ID)
		c.Set("adminUsername", admin.Username)
	})
	return router
}
