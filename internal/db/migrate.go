package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/security"
)

// Migrate creates or updates the schema for all application tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.LoginActivity{},
		&models.DailyCheckIn{},
		&models.Transaction{},
		&models.InvestmentPlan{},
		&models.Investment{},
		&models.Prize{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.Admin{},
		&models.Comment{},
		&models.ActivityLogEntry{},
		&models.Setting{},
	)
}

// Seed inserts the bootstrap admin account and the default prize wheel when
// the respective tables are empty. It is safe to call on every startup.
func Seed(conn *gorm.DB, adminUsername, adminPassword string) error {
	if conn == nil {
		return errors.New("db: nil connection")
	}

	var adminCount int64
	if err := conn.Model(&models.Admin{}).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("db: count admins: %w", err)
	}
	if adminCount == 0 {
		hash, errHash := security.HashPassword(adminPassword)
		if errHash != nil {
			return fmt.Errorf("db: hash seed admin password: %w", errHash)
		}
		admin := models.Admin{
			Username:     adminUsername,
			Password:     hash,
			Active:       true,
			IsSuperAdmin: true,
		}
		if errCreate := conn.Create(&admin).Error; errCreate != nil {
			return fmt.Errorf("db: seed admin: %w", errCreate)
		}
	}

	var prizeCount int64
	if err := conn.Model(&models.Prize{}).Count(&prizeCount).Error; err != nil {
		return fmt.Errorf("db: count prizes: %w", err)
	}
	if prizeCount == 0 {
		if errCreate := conn.Create(defaultPrizes()).Error; errCreate != nil {
			return fmt.Errorf("db: seed prizes: %w", errCreate)
		}
	}

	return nil
}

// defaultPrizes returns the initial wheel catalog, one prize per slot.
func defaultPrizes() []models.Prize {
	return []models.Prize{
		{Name: "$5 Cash", Type: models.PrizeTypeMoney, Amount: 5},
		{Name: "$10 Cash", Type: models.PrizeTypeMoney, Amount: 10},
		{Name: "$20 Cash", Type: models.PrizeTypeMoney, Amount: 20},
		{Name: "$50 Bonus", Type: models.PrizeTypeBonus, Amount: 50},
		{Name: "$100 Bonus", Type: models.PrizeTypeBonus, Amount: 100},
		{Name: "Smartphone", Type: models.PrizeTypePhysical, Amount: 0},
		{Name: "Better Luck Next Time", Type: models.PrizeTypeNothing, Amount: 0},
		{Name: "$2 Cash", Type: models.PrizeTypeMoney, Amount: 2},
	}
}
