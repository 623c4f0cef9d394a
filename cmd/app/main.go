package main

import (
	"scheduler/config"
	"scheduler/di"
	"scheduler/helper"
	"scheduler/shared/logger"

	_ "scheduler/docs"

	"github.com/rs/zerolog/log"
)

// @title Scheduler API
// @version 1.0
// @description Advisor availability, slot discovery, booking and approval.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
