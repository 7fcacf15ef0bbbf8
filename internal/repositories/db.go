package repositories

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

/* ------------------------------------------------------------------
   DB abstraction
------------------------------------------------------------------ */

// DB is the subset of pgx that repositories need. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so every repository can run inside or outside a
// transaction without knowing which.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// InTx runs fn inside a single all-or-nothing transaction. Any error (or
// panic) rolls the whole thing back; no partial effect is ever visible.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	return pool.BeginFunc(ctx, fn)
}
