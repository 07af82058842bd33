package postgres_test

import (
	"net/url"
	"testing"

	"hostel/config"
	"hostel/infras/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "staging_"

	endpoint := config.PostgresEndpoint{
		Host:     "db.internal",
		Port:     "5433",
		Username: "hostel",
		Password: "p@ss/word",
		Name:     "hostel",
		Timezone: "Asia/Jakarta",
		SSLMode:  "require",
	}

	raw := postgres.DSN(cfg, endpoint, map[string]string{"x-migrations-table": "schema_migrations"})

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5433", parsed.Host)
	assert.Equal(t, "/staging_hostel", parsed.Path)
	assert.Equal(t, "hostel", parsed.User.Username())

	pass, ok := parsed.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss/word", pass)

	query := parsed.Query()
	assert.Equal(t, "require", query.Get("sslmode"))
	assert.Equal(t, "Asia/Jakarta", query.Get("timezone"))
	assert.Equal(t, "schema_migrations", query.Get("x-migrations-table"))
}

func TestDSNOmitsEmptyOptions(t *testing.T) {
	raw := postgres.DSN(&config.Config{}, config.PostgresEndpoint{Host: "localhost", Port: "5432", Name: "hostel"}, nil)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/hostel", parsed.Path)
	assert.Empty(t, parsed.RawQuery)
}
