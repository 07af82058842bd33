package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"hostel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	roleRead  = "read"
	roleWrite = "write"
)

// Connection splits traffic between a read replica and the primary.
// Booking transactions and row locks always go through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  Connect(config, roleRead, config.DB.Postgres.Read),
		Write: Connect(config, roleWrite, config.DB.Postgres.Write),
	}
}

// DBName applies the configured environment prefix to a database name.
func DBName(config *config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

// DSN renders a postgres URL for the endpoint. Extra pairs are appended as query parameters.
func DSN(config *config.Config, endpoint config.PostgresEndpoint, extra map[string]string) string {
	query := url.Values{}
	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, value := range extra {
		query.Set(key, value)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + DBName(config, endpoint.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect dials the endpoint, retrying MaxRetry times. The process exits when every attempt fails.
func Connect(config *config.Config, role string, endpoint config.PostgresEndpoint) *sqlx.DB {
	pg := config.DB.Postgres
	dsn := DSN(config, endpoint, nil)
	attempts := max(pg.MaxRetry, 1)

	logger := log.With().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", DBName(config, endpoint.Name)).
		Logger()

	var lastErr error

	for attempt := range attempts {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

			logger.Info().Int("attempt", attempt+1).Msg("Connected to database")

			return db
		}

		lastErr = err

		logger.Error().Err(err).Int("attempt", attempt+1).Int("of", attempts).Msg("Failed connecting to database, retrying")

		if attempt < attempts-1 {
			time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
		}
	}

	logger.Fatal().Err(lastErr).Msg("Giving up connecting to database")

	return nil
}
