package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"scheduler/config"
	"scheduler/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

func databaseName(cfg *config.Config) string {
	return cfg.DB.Postgres.Prefix + cfg.DB.Postgres.Write.Name
}

// migrationURL builds the golang-migrate postgres URL for the write database.
// Credentials are escaped; generated passwords often carry '@' or '/'.
func migrationURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	if write.SSLMode != "" {
		query.Set("sslmode", write.SSLMode)
	}

	if cfg.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + databaseName(cfg),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// withMigrator opens the embedded schema against the write database, so the binaries do not
// depend on the working directory.
func withMigrator(cfg *config.Config, run func(*migrate.Migrate) error) error {
	source, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect migrator to %s: %w", databaseName(cfg), err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("Migrator did not close cleanly")
		}
	}()

	err = run(mig)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("database", databaseName(cfg)).Msg("Schema already up to date")

		return nil
	}

	return err
}

func logVersion(mig *migrate.Migrate, action string) {
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Str("action", action).Msg("Schema is empty")

		return
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Schema migrated")
}

// Up applies every pending migration. The booking EXCLUDE constraint needs btree_gist,
// which the bookings migration creates.
func Up(cfg *config.Config) error {
	return withMigrator(cfg, func(mig *migrate.Migrate) error {
		if err := mig.Up(); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		logVersion(mig, "up")

		return nil
	})
}

func StepUp(cfg *config.Config) error {
	return withMigrator(cfg, func(mig *migrate.Migrate) error {
		if err := mig.Steps(1); err != nil {
			return fmt.Errorf("failed to apply next migration: %w", err)
		}

		logVersion(mig, "step-up")

		return nil
	})
}

func Down(cfg *config.Config) error {
	return withMigrator(cfg, func(mig *migrate.Migrate) error {
		if err := mig.Steps(-1); err != nil {
			return fmt.Errorf("failed to roll back last migration: %w", err)
		}

		logVersion(mig, "down")

		return nil
	})
}

func Drop(cfg *config.Config) error {
	return withMigrator(cfg, func(mig *migrate.Migrate) error {
		if err := mig.Down(); err != nil {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}

		logVersion(mig, "drop")

		return nil
	})
}

// Version reports the applied schema version without changing it.
func Version(cfg *config.Config) error {
	return withMigrator(cfg, func(mig *migrate.Migrate) error {
		logVersion(mig, "version")

		return nil
	})
}
