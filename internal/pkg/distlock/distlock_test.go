package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLockAcquireRelease(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "watcher", time.Minute)
	l2 := NewRedisLock(client, "watcher", time.Minute)

	ok, err := l1.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second holder of the same key is refused while the lock is held.
	ok, err = l2.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l1.Release(ctx))

	ok, err = l2.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockReleaseOnlyOwn(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "watcher", time.Minute)
	l2 := NewRedisLock(client, "watcher", time.Minute)

	ok, err := l1.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// l2 never held the lock; releasing must not free l1's hold.
	require.NoError(t, l2.Release(ctx))

	ok, err = l2.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPrefersRedis(t *testing.T) {
	client := testClient(t)

	l := New(client, nil, "watcher", time.Minute)
	_, isRedis := l.(*RedisLock)
	assert.True(t, isRedis)

	l = New(nil, nil, "watcher", time.Minute)
	_, isAdvisory := l.(*AdvisoryLock)
	assert.True(t, isAdvisory)
}
