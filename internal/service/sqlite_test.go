package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"wordreview/internal/database"
	"wordreview/internal/domain"
	"wordreview/internal/repository/sqlstore"
	"wordreview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	logger := testutil.NewTestLogger()
	opts := database.Options{
		Driver:     "sqlite",
		DSN:        fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name()),
		MaxRetries: 1,
	}
	db, err := database.Open(context.Background(), opts, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, "sqlite", logger))
	return db
}

func newSQLiteLedger(db *sql.DB, clock *testutil.Clock) *Ledger {
	logger := testutil.NewTestLogger()
	return NewLedger(sqlstore.NewProgressRepo(db), sqlstore.NewTransactor(db, logger), time.UTC, clock.Now, logger)
}

func TestLedger_SQLite_MarkWrongUnknownWordKeepsSet(t *testing.T) {
	db := openSQLite(t)
	words := sqlstore.NewWordRepo(db)
	ledger := newSQLiteLedger(db, testutil.NewClock(testNow))

	require.NoError(t, ledger.Register(testCtx, "alice"))
	require.NoError(t, words.Save(testCtx, domain.Word{English: "apple", Translation: "яблоко", AddedAt: testNow}))
	require.NoError(t, ledger.MarkWrong(testCtx, "alice", "apple"))

	err := ledger.MarkWrong(testCtx, "alice", "aardvark")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
	wrong, err := ledger.WrongWords(testCtx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, wrong)

	// set semantics: repeating or removing an absent word is fine
	require.NoError(t, ledger.MarkWrong(testCtx, "alice", "apple"))
	require.NoError(t, ledger.MarkCorrected(testCtx, "alice", "bridge"))
	wrong, err = ledger.WrongWords(testCtx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, wrong)

	require.NoError(t, ledger.MarkCorrected(testCtx, "alice", "apple"))
	wrong, err = ledger.WrongWords(testCtx, "alice")
	require.NoError(t, err)
	assert.Empty(t, wrong)
}

func TestLedger_SQLite_CheckInHistory(t *testing.T) {
	db := openSQLite(t)
	clock := testutil.NewClock(testNow)
	ledger := newSQLiteLedger(db, clock)
	stats := NewStatsService(sqlstore.NewWordRepo(db), sqlstore.NewProgressRepo(db), time.UTC, clock.Now, testutil.NewTestLogger())

	require.NoError(t, ledger.Register(testCtx, "alice"))

	for i := 0; i < 3; i++ {
		_, err := ledger.CheckIn(testCtx, "alice")
		require.NoError(t, err)
		_, err = ledger.CheckIn(testCtx, "alice")
		require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
		clock.Advance(24 * time.Hour)
	}

	records, err := stats.CheckInHistory(testCtx, "alice", 7)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2024-05-20", records[0].Day.DateString())
	assert.Equal(t, 1, records[0].Streak)
	assert.Equal(t, 16, records[2].Points)
	assert.Equal(t, 3, records[2].Streak)

	p, err := ledger.Progress(testCtx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 12+14+16, p.TotalScore)

	summary, err := stats.Summary(testCtx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CheckInsThisMonth)
}

func TestLedger_SQLite_CheckInUnknownUserWritesNothing(t *testing.T) {
	db := openSQLite(t)
	ledger := newSQLiteLedger(db, testutil.NewClock(testNow))

	_, err := ledger.CheckIn(testCtx, "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM checkins`).Scan(&count))
	assert.Equal(t, 0, count)
}
