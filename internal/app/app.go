// Package app wires configuration, storage, and the HTTP surfaces together.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/chat"
	"github.com/wealthora/backend/internal/config"
	"github.com/wealthora/backend/internal/db"
	adminapi "github.com/wealthora/backend/internal/http/api/admin"
	frontapi "github.com/wealthora/backend/internal/http/api/front"
	"github.com/wealthora/backend/internal/otp"
	"github.com/wealthora/backend/internal/returns"
	"github.com/wealthora/backend/internal/settings"
	"github.com/wealthora/backend/internal/sms"
)

// setupLogging configures the log level and optional rotating file output.
func setupLogging(cfg config.LoggingConfig) {
	level, errParse := log.ParseLevel(cfg.Level)
	if errParse != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
}

// Migrate opens the database and applies schema migrations and seed data.
func Migrate(cfg *config.Config) error {
	setupLogging(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return fmt.Errorf("app: open database: %w", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return fmt.Errorf("app: migrate: %w", errMigrate)
	}
	if errSeed := db.Seed(conn, cfg.AdminSeed.Username, cfg.AdminSeed.Password); errSeed != nil {
		return fmt.Errorf("app: seed: %w", errSeed)
	}
	return nil
}

// RunServer starts the HTTP server and blocks until it exits.
func RunServer(cfg *config.Config) error {
	setupLogging(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return fmt.Errorf("app: open database: %w", errOpen)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return fmt.Errorf("app: migrate: %w", errMigrate)
	}
	if errSeed := db.Seed(conn, cfg.AdminSeed.Username, cfg.AdminSeed.Password); errSeed != nil {
		return fmt.Errorf("app: seed: %w", errSeed)
	}

	if errRefresh := settings.RefreshSnapshot(context.Background(), conn); errRefresh != nil {
		log.WithError(errRefresh).Warn("initial settings snapshot failed")
	}

	outbox := sms.NewSimulator()

	var codeStore otp.Store = otp.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if errPing := client.Ping(context.Background()).Err(); errPing != nil {
			log.WithError(errPing).Warn("redis unreachable, verification codes stay in memory")
		} else {
			codeStore = otp.NewRedisStore(client)
		}
	}
	codes := otp.NewService(codeStore, outbox, cfg.Rules.OTPTTL())

	chatSvc := chat.NewService(conn)
	settingsStore := settings.NewStore(conn)
	recorder := activity.NewRecorder(conn)

	scheduler := returns.NewScheduler(conn)
	if errStart := scheduler.Start(); errStart != nil {
		return errStart
	}
	defer scheduler.Stop()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	frontapi.RegisterRoutes(engine, frontapi.Deps{
		DB:       conn,
		JWT:      cfg.JWT,
		Rules:    cfg.Rules,
		Codes:    codes,
		Chat:     chatSvc,
		Settings: settingsStore,
		Recorder: recorder,
		Outbox:   outbox,
	})
	adminapi.RegisterRoutes(engine, adminapi.Deps{
		DB:       conn,
		JWT:      cfg.JWT,
		Chat:     chatSvc,
		Settings: settingsStore,
		Recorder: recorder,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.WithField("addr", addr).Info("server starting")
	return engine.Run(addr)
}
