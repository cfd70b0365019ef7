package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"wordreview/internal/config"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies all pending migrations for the driver
func Migrate(db *sql.DB, driver string, logger *zap.Logger) error {
	var (
		dbDriver migratedb.Driver
		err      error
	)
	switch driver {
	case config.DriverPostgres:
		dbDriver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	case config.DriverSQLite:
		dbDriver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
