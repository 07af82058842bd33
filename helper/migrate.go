package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"hostel/config"
	"hostel/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownMigrationAction = errors.New("unknown migration action")

// migrationSteps maps an action to the schema change it performs on the write primary.
var migrationSteps = map[string]func(*migrate.Migrate) error{
	ActionUp:     func(m *migrate.Migrate) error { return m.Up() },
	ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	ActionDrop:   func(m *migrate.Migrate) error { return m.Down() },
}

// MigrationDSN targets the write primary and records state in the configured migrations table.
func MigrationDSN(cfg *config.Config) string {
	return postgres.DSN(cfg, cfg.DB.Postgres.Write, map[string]string{
		"x-migrations-table": cfg.DB.Postgres.MigrationTable,
	})
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(cfg.DB.Postgres.MigrationSource, MigrationDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func closeMigration(mig *migrate.Migrate) {
	srcErr, dbErr := mig.Close()
	if srcErr != nil || dbErr != nil {
		log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
	}
}

func Runner(cfg *config.Config, action string) error {
	step, ok := migrationSteps[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMigrationAction, action)
	}

	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer closeMigration(mig)

	if err := step(mig); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("action", action).Msg("Database schema already up to date")

			return nil
		}

		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished successfully")

	return nil
}

// Version reports the applied schema version and whether the last run left it dirty.
func Version(cfg *config.Config) (version uint, dirty bool, err error) {
	mig, err := getConnection(cfg)
	if err != nil {
		return 0, false, err
	}

	defer closeMigration(mig)

	version, dirty, err = mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("error reading migration version: %w", err)
	}

	return version, dirty, nil
}

// Force marks version as applied without running it, clearing a dirty state.
func Force(cfg *config.Config, version int) error {
	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer closeMigration(mig)

	if err := mig.Force(version); err != nil {
		return fmt.Errorf("error forcing migration version %d: %w", version, err)
	}

	log.Info().Int("version", version).Msg("Database migration version forced")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
