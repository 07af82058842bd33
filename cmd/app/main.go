package main

import (
	"hostel/config"
	"hostel/di"
	"hostel/helper"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Hostel Booking API
// @version 1.0
// @description Public booking site and admin back office for a hostel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
