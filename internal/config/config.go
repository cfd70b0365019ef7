package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	BotToken        string
	Database        DatabaseConfig
	CheckinTimezone string
	ReviewBatchSize int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Path     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	batchSize, err := strconv.Atoi(getEnv("REVIEW_BATCH_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("REVIEW_BATCH_SIZE must be a number: %w", err)
	}

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", DriverPostgres),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordreview"),
			User:     getEnv("DB_USER", "wordreview"),
			Password: os.Getenv("DB_PASSWORD"),
			Path:     getEnv("DB_PATH", "data/wordreview.db"),
		},
		CheckinTimezone: getEnv("CHECKIN_TIMEZONE", "Europe/Moscow"),
		ReviewBatchSize: batchSize,
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.Database.Driver)
	}
	if cfg.ReviewBatchSize <= 0 {
		return nil, fmt.Errorf("REVIEW_BATCH_SIZE must be positive, got %d", cfg.ReviewBatchSize)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the time zone calendar days are counted in
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.CheckinTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_TIMEZONE %q: %w", c.CheckinTimezone, err)
	}
	return loc, nil
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Database.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
