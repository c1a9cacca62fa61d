package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/wealthora/backend/internal/app"
	"github.com/wealthora/backend/internal/config"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, errLoad := config.Load(*configPath)
	if errLoad != nil {
		log.WithError(errLoad).Fatal("load configuration failed")
	}

	if flag.Arg(0) == "migrate" {
		if errMigrate := app.Migrate(&cfg); errMigrate != nil {
			log.WithError(errMigrate).Fatal("migration failed")
		}
		log.Info("migration complete")
		os.Exit(0)
	}

	if errRun := app.RunServer(&cfg); errRun != nil {
		log.WithError(errRun).Fatal("server exited")
	}
}
