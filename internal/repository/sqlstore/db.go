// Package sqlstore implements the repositories on database/sql.
// Queries use $n placeholders in order of appearance, ON CONFLICT upserts and
// timestamps bound from Go, so the same statements run on postgres and sqlite.
package sqlstore

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ dbtx = (*sql.DB)(nil)
	_ dbtx = (*sql.Tx)(nil)
)
