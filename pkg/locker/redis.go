package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync on the Redis
// instance that backs the shared cache.
type RedisLocker struct {
	rs        *redsync.Redsync
	keyPrefix string
	logger    *zap.Logger

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// NewRedisLocker creates a new RedisLocker. Lock keys are stored as
// "<keyPrefix>:<key>" so they share the cache namespace; an empty prefix
// stores them as given.
func NewRedisLocker(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		keyPrefix: keyPrefix,
		logger:    logger,
		mutexes:   make(map[string]*redsync.Mutex),
	}
}

// Acquire makes a single non-blocking attempt to take the lock.
// Contention is reported as (false, nil); Redis and context failures as errors.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	mutex := r.rs.NewMutex(
		r.buildKey(key),
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			r.logger.Debug("lock held by another instance", zap.String("key", key))

			return false, nil
		}

		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release releases the lock if this locker acquired it. Redsync checks the
// lock token, so a lock that expired and was taken by another instance is
// left alone.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, ok := r.mutexes[key]
	delete(r.mutexes, key)
	r.mu.Unlock()

	if !ok {
		r.logger.Debug("lock not owned by this instance", zap.String("key", key))

		return nil
	}

	released, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}

	r.logger.Debug("lock released",
		zap.String("key", key),
		zap.Bool("owned", released),
	)

	return nil
}

func (r *RedisLocker) buildKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}

	return r.keyPrefix + ":" + key
}

// isTaken reports whether err means the lock is held elsewhere. Redsync
// returns either ErrFailed or a wrapped "lock already taken" error.
func isTaken(err error) bool {
	return errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken")
}
