// Package distlock provides a non-blocking distributed lock so that only
// one server replica polls the S3 drop folder at a time. Redis is the
// preferred backend; Postgres advisory locks are the fallback when redis is
// not configured.
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a try-lock: Acquire never blocks, it reports whether this process
// now holds the lock. A Lock instance belongs to a single goroutine.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// New picks the best available backend. A non-nil redis client wins; with
// only a database handle the lock degrades to a Postgres advisory lock,
// which is released automatically if the session drops.
func New(client *redis.Client, db *sql.DB, key string, ttl time.Duration) Lock {
	if client != nil {
		return NewRedisLock(client, key, ttl)
	}
	return NewAdvisoryLock(db, key)
}

// AdvisoryLock holds a pg_try_advisory_lock keyed by a hash of the lock
// name. Session-scoped, so a crashed holder frees it on disconnect.
type AdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewAdvisoryLock derives a stable 64-bit lock ID from the key.
func NewAdvisoryLock(db *sql.DB, key string) *AdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &AdvisoryLock{db: db, lockID: int64(h.Sum64())}
}

func (l *AdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var ok bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&ok)
	return ok, err
}

func (l *AdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
