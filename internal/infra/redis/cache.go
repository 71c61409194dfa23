// Package redis provides the networked domain.Cache implementation.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return client, nil
}

// Cache implements domain.Cache using Redis.
// Every key is stored under keyPrefix so several deployments can share one server.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewCache creates a new Redis cache instance.
func NewCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value by key. Returns nil, nil if the key doesn't exist.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, err
	}

	return data, nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.buildKey(key), value, ttl).Err(); err != nil {
		c.logger.Error("cache set failed",
			zap.String("key", key),
			zap.Int("bytes", len(value)),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Delete removes a value by key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.buildKey(key)).Err(); err != nil {
		c.logger.Error("cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)

		return err
	}

	c.logger.Debug("cache delete", zap.String("key", key))

	return nil
}

// Clear removes all values under the key prefix.
// Uses SCAN so large keyspaces don't block the server.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := c.keyPrefix + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache clear scan failed",
			zap.String("pattern", pattern),
			zap.Error(err),
		)

		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache clear delete failed",
			zap.Int("key_count", len(keys)),
			zap.Error(err),
		)

		return err
	}

	c.logger.Info("cache cleared", zap.Int("key_count", len(keys)))

	return nil
}

// Ping reports whether the Redis server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) buildKey(key string) string {
	return c.keyPrefix + ":" + key
}
