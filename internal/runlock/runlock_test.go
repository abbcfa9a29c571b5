package runlock

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a real Redis.
// Run with: TEST_REDIS_HOST=localhost go test -v ./internal/runlock/...

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("TEST_REDIS_HOST not set")
	}
	port := 6379
	if p := os.Getenv("TEST_REDIS_PORT"); p != "" {
		var err error
		port, err = strconv.Atoi(p)
		require.NoError(t, err)
	}

	rdb, err := Connect(context.Background(), Config{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestKey(t *testing.T) {
	assert.Equal(t, "nhlstats:run:fetch:2021-01-13", Key("fetch:2021-01-13"))
}

func TestLocker_Exclusive(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	name := "test:" + strconv.FormatInt(time.Now().UnixNano(), 10)

	locker := NewLocker(rdb, time.Minute)

	lock, err := locker.Acquire(ctx, name)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, name)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, lock.Release(ctx))
	assert.ErrorIs(t, lock.Release(ctx), ErrLockNotHeld)

	lock, err = locker.Acquire(ctx, name)
	require.NoError(t, err, "Released lock can be taken again")
	require.NoError(t, lock.Release(ctx))
}

func TestLocker_WithLock(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	name := "test:" + strconv.FormatInt(time.Now().UnixNano(), 10)

	locker := NewLocker(rdb, time.Minute)
	boom := errors.New("boom")

	err := locker.WithLock(ctx, name, func() error {
		inner := locker.WithLock(ctx, name, func() error { return nil })
		assert.ErrorIs(t, inner, ErrLockHeld)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ran := false
	require.NoError(t, locker.WithLock(ctx, name, func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran, "Lock is released after a failing run")
}
