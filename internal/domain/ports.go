package domain

import (
	"context"
	"time"
)

// VideoPlatform defines the external video-platform API used for discovery.
// Implementations: internal/infra/provider/youtube/
type VideoPlatform interface {
	// Search issues one search call with the canonical parameters.
	// Failures are *UpstreamError or *TransportError.
	Search(ctx context.Context, params SearchParams) (*SearchPage, error)

	// VideoDetails fetches statistics and content details for at most
	// MaxBatchSize ids. Items that fail to parse are omitted.
	VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error)

	// ChannelDetails fetches avatar data for at most MaxBatchSize channel ids.
	// Channels without a usable thumbnail are omitted.
	ChannelDetails(ctx context.Context, ids []string) (map[string]ChannelDetail, error)
}

// MaxBatchSize is the platform's limit of ids per detail call.
const MaxBatchSize = 50

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go, internal/infra/memory/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
