// Package memory provides an in-process domain.Cache backed by go-cache.
// It is used for single-instance deployments and local runs without Redis.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Cache implements domain.Cache in process memory.
type Cache struct {
	cache  *gocache.Cache
	logger *zap.Logger
}

// NewCache creates a Cache whose expired entries are swept every cleanupInterval.
// Entries never expire unless Set is given a positive TTL.
func NewCache(cleanupInterval time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		cache:  gocache.New(gocache.NoExpiration, cleanupInterval),
		logger: logger,
	}
}

// Get retrieves a value by key. Returns nil, nil if the key doesn't exist.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	item, found := c.cache.Get(key)
	if !found {
		return nil, nil
	}

	data, ok := item.([]byte)
	if !ok {
		return nil, nil
	}

	return clone(data), nil
}

// Set stores a copy of value with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, clone(value), ttl)

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes a value by key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	c.logger.Debug("cache delete", zap.String("key", key))

	return nil
}

// Clear removes all cached values.
func (c *Cache) Clear(_ context.Context) error {
	count := c.cache.ItemCount()
	c.cache.Flush()
	c.logger.Info("cache cleared", zap.Int("key_count", count))

	return nil
}

// Ping always succeeds; the store lives in process.
func (c *Cache) Ping(context.Context) error {
	return nil
}

// ItemCount returns the number of entries, including expired ones not yet swept.
func (c *Cache) ItemCount() int {
	return c.cache.ItemCount()
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
