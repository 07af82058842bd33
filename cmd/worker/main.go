package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hostel/config"
	"hostel/di"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("driver", cfg.Broker.Driver).Str("topic", cfg.Broker.Topic).Msg("Starting booking event worker")

	if err := di.InitializeWorker().Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Booking event worker stopped")
	}

	log.Info().Msg("Booking event worker stopped")
}
