// Package locker provides locks that keep background jobs from running
// twice across service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := locker.Acquire(ctx, "warmup:lock", 5*time.Minute)
//	if err != nil {
//	    return err
//	}
//	if !acquired {
//	    return nil
//	}
//	defer locker.Release(ctx, "warmup:lock")
type DistributedLocker interface {
	// Acquire attempts to take the lock identified by key without blocking.
	// Returns false when another holder has it. The lock expires after ttl
	// if not released.
	//
	// For mutual exclusion use the operation timeout as ttl; for a cooldown
	// use the cooldown period.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key.
	// Releasing a lock this holder does not own is a no-op.
	Release(ctx context.Context, key string) error
}
