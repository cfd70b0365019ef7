package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openMemory(t *testing.T) Options {
	t.Helper()
	return Options{
		Driver:     "sqlite",
		DSN:        "file::memory:?_foreign_keys=on",
		MaxRetries: 1,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open(context.Background(), Options{Driver: "mysql", DSN: "x"}, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "mysql")
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), openMemory(t), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_GivesUpWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := Options{
		Driver:     "sqlite",
		DSN:        "file:/nonexistent-dir/words.db?mode=ro",
		MaxRetries: 3,
		RetryDelay: time.Hour,
	}
	db, err := Open(ctx, opts, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Open(context.Background(), openMemory(t), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, "sqlite", zap.NewNop()))
	// second run has nothing to apply
	require.NoError(t, Migrate(db, "sqlite", zap.NewNop()))

	for _, table := range []string{"words", "users", "learning_records", "wrong_words", "checkins", "review_days"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	err := Migrate(nil, "mysql", zap.NewNop())

	assert.Error(t, err)
}
