// Package database opens the configured SQL database and migrates its schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"wordreview/internal/config"
)

// Options controls how Open connects
type Options struct {
	Driver     string
	DSN        string
	MaxRetries int
	RetryDelay time.Duration
}

// OptionsFromConfig returns the connect options for cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:     cfg.Database.Driver,
		DSN:        cfg.DSN(),
		MaxRetries: 30,
		RetryDelay: 2 * time.Second,
	}
}

// sqlDriverName maps a configured driver to its database/sql name
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the database with retries
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*sql.DB, error) {
	name, err := sqlDriverName(opts.Driver)
	if err != nil {
		return nil, err
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var db *sql.DB
	for i := 0; i < opts.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}

		db, err = sql.Open(name, opts.DSN)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			continue
		}

		// Test connection
		if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			continue
		}

		configurePool(db, opts.Driver)
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", opts.MaxRetries, err)
}

func configurePool(db *sql.DB, driver string) {
	if driver == config.DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
		return
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
}
