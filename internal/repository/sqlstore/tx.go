package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"wordreview/internal/repository"
)

// Transactor implements repository.Transactor on a *sql.DB
type Transactor struct {
	db     *sql.DB
	now    func() time.Time
	logger *zap.Logger
}

// NewTransactor creates a new transactor
func NewTransactor(db *sql.DB, logger *zap.Logger) *Transactor {
	return &Transactor{db: db, now: time.Now, logger: logger}
}

// WithinTx runs fn with repositories bound to a single transaction.
// The transaction is rolled back when fn returns an error or panics.
func (t *Transactor) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				t.logger.Error("Failed to roll back transaction after panic", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	words := &WordRepo{db: tx}
	progress := &ProgressRepo{db: tx, now: t.now}

	if err := fn(words, progress); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error("Failed to roll back transaction", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}

	return errors.Wrap(tx.Commit(), "commit transaction")
}
