package locker

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// LocalLocker implements DistributedLocker inside one process. It is used
// with the in-memory cache backend, where there is no shared store to
// coordinate through.
type LocalLocker struct {
	locks  *cache.Cache
	logger *zap.Logger
}

// NewLocalLocker creates a new LocalLocker.
func NewLocalLocker(logger *zap.Logger) *LocalLocker {
	return &LocalLocker{
		locks:  cache.New(cache.NoExpiration, time.Minute),
		logger: logger,
	}
}

// Acquire takes the lock if it is free or its previous holder's ttl has passed.
func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// Add fails when an unexpired item exists, which makes it the atomic test-and-set.
	if err := l.locks.Add(key, struct{}{}, ttl); err != nil {
		l.logger.Debug("lock already held", zap.String("key", key))

		return false, nil
	}

	l.logger.Debug("lock acquired",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)

	return true, nil
}

// Release frees the lock. Releasing a free lock is a no-op.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.locks.Delete(key)
	l.logger.Debug("lock released", zap.String("key", key))

	return nil
}
