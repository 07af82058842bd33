package logger

import (
	"io"
	"os"
	"time"

	"hostel/config"
	"hostel/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultLevel = zerolog.InfoLevel

// InitLogger installs a console logger used until the configuration is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level and switches to JSON output outside development.
// Every entry carries the service name and environment.
func Configure(cfg *config.Config) {
	log.Logger = New(cfg, os.Stdout)

	SetLogLevel(cfg)
}

// New builds the process logger writing to out.
func New(cfg *config.Config, out io.Writer) zerolog.Logger {
	writer := out
	if cfg.Server.Env == constant.Empty || cfg.Server.Env == constant.ServerEnvDevelopment {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel falls back to info when the level is missing or unknown.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)

	switch {
	case err != nil:
		log.Warn().Str("requested", cfg.Server.LogLevel).Str("loglevel", defaultLevel.String()).Msg("Unknown log level, using default.")

		level = defaultLevel
	case level == zerolog.NoLevel:
		log.Debug().Str("loglevel", defaultLevel.String()).Msg("Environment has no log level set up, using default.")

		level = defaultLevel
	default:
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}
