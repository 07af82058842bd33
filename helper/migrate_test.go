package helper_test

import (
	"net/url"
	"testing"

	"hostel/config"
	"hostel/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.MigrationTable = "hostel_migrations"
	cfg.DB.Postgres.Write = config.PostgresEndpoint{Host: "primary", Port: "5432", Username: "app", Name: "hostel", SSLMode: "disable"}
	cfg.DB.Postgres.Read = config.PostgresEndpoint{Host: "replica", Port: "5432", Name: "hostel"}

	parsed, err := url.Parse(helper.MigrationDSN(cfg))
	require.NoError(t, err)

	assert.Equal(t, "primary:5432", parsed.Host)
	assert.Equal(t, "hostel_migrations", parsed.Query().Get("x-migrations-table"))
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
}

func TestRunnerRejectsUnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	assert.ErrorIs(t, err, helper.ErrUnknownMigrationAction)
}
