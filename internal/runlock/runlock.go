// Package runlock keeps two processes from running the same daily fetch
// at once. Locks live in Redis and expire on their own if a holder dies.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	// ErrLockHeld is returned when another process holds the lock
	ErrLockHeld = errors.New("run lock held by another process")
	// ErrLockNotHeld is returned when releasing a lock that expired or
	// was taken over
	ErrLockNotHeld = errors.New("run lock not held")
)

const keyPrefix = "nhlstats:run:"

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Connect opens a Redis client and checks that it answers
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Msg("Connected to Redis")
	return rdb, nil
}

// Locker hands out named locks with a fixed TTL
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLocker creates a Locker. The TTL should exceed the longest run.
func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl}
}

// Lock is a held lock
type Lock struct {
	rdb   *redis.Client
	key   string
	value string
}

// Key returns the Redis key of a lock name
func Key(name string) string {
	return keyPrefix + name
}

// Acquire takes the named lock or returns ErrLockHeld
func (l *Locker) Acquire(ctx context.Context, name string) (*Lock, error) {
	key := Key(name)
	value := uuid.New().String()

	ok, err := l.rdb.SetNX(ctx, key, value, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrLockHeld)
	}

	log.Debug().Str("lock", key).Dur("ttl", l.ttl).Msg("Acquired run lock")
	return &Lock{rdb: l.rdb, key: key, value: value}, nil
}

// Release frees the lock if it is still ours
func (lock *Lock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, lock.rdb, []string{lock.key}, lock.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release %s: %w", lock.key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", lock.key, ErrLockNotHeld)
	}

	log.Debug().Str("lock", lock.key).Msg("Released run lock")
	return nil
}

// WithLock runs fn while holding the named lock
func (l *Locker) WithLock(ctx context.Context, name string, fn func() error) error {
	lock, err := l.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		// Release with a fresh context so a cancelled run still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			log.Warn().Err(err).Str("lock", lock.key).Msg("Failed to release run lock")
		}
	}()

	return fn()
}
