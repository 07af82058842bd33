package main

import (
	"context"
	"os"
	"strconv"

	"hostel/config"
	"hostel/helper"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	authService "hostel/internal/domains/auth/service"
	userRepository "hostel/internal/domains/user/repository"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength      = 2
	forceArgLength = 3
	usage          = "usage: migrate up|down|drop|step-up|version|force <version>|seed-admin"
)

func seedAdmin(cfg *config.Config) error {
	otl := otel.New(cfg)
	auth := authService.New(userRepository.New(postgres.New(cfg), otl), cfg, otl, jwt.New(cfg))

	return helper.SeedAdmin(context.Background(), cfg, auth) //nolint:wrapcheck
}

func run(cfg *config.Config, args []string) error {
	switch args[1] {
	case "version":
		version, dirty, err := helper.Version(cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	case "force":
		if len(args) < forceArgLength {
			log.Fatal().Msg(usage)
		}

		version, err := strconv.Atoi(args[2])
		if err != nil {
			log.Fatal().Str("version", args[2]).Msg("force expects a numeric version")
		}

		return helper.Force(cfg, version) //nolint:wrapcheck
	case "seed-admin":
		return seedAdmin(cfg)
	default:
		return helper.Runner(cfg, args[1]) //nolint:wrapcheck
	}
}

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg(usage)
	}

	cfg := config.Get()

	logger.Configure(cfg)

	if err := run(cfg, os.Args); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Migration command failed")
	}
}
