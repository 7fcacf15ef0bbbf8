package repositories

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/justatarek/ergodnc/internal/utils"
)

/* ------------------------------------------------------------------
   Named lock primitive
------------------------------------------------------------------ */

// ReleaseFunc releases a held lock. Safe to call exactly once; callers
// defer it on every exit path.
type ReleaseFunc func()

// Locker is a distributed-safe mutual-exclusion primitive keyed by an
// arbitrary string. Acquire blocks for at most maxWait and returns
// utils.ErrLockTimeout if the lock is still held elsewhere; locks with
// different keys never contend.
type Locker interface {
	Acquire(ctx context.Context, key string, maxWait time.Duration) (ReleaseFunc, error)
}

/* ------------------------------------------------------------------
   Postgres advisory-lock implementation
------------------------------------------------------------------ */

type advisoryLocker struct {
	pool  *pgxpool.Pool
	retry time.Duration
}

func NewAdvisoryLocker(pool *pgxpool.Pool, retry time.Duration) Locker {
	return &advisoryLocker{pool: pool, retry: retry}
}

func (l *advisoryLocker) Acquire(ctx context.Context, key string, maxWait time.Duration) (ReleaseFunc, error) {
	lockID := hashLockKey(key)

	// A session-level advisory lock lives on one connection, so the
	// connection is pinned until release.
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(maxWait)
	for {
		var acquired bool
		if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired); err != nil {
			conn.Release()
			return nil, err
		}
		if acquired {
			release := func() {
				// The unlock must not be skipped on a canceled request
				// context, so it runs on its own context.
				unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if _, err := conn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", lockID); err != nil {
					utils.Logger.WithError(err).Errorf("Failed to release advisory lock %q", key)
				}
				conn.Release()
			}
			return release, nil
		}

		if time.Now().Add(l.retry).After(deadline) {
			conn.Release()
			return nil, utils.ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			conn.Release()
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

// hashLockKey folds the textual lock name into the 64-bit keyspace
// pg_advisory_lock works with.
func hashLockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
