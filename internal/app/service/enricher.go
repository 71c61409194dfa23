package service

import (
	"context"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"video-discovery-service/internal/domain"
)

// DetailFetcher fetches details for one chunk of at most domain.MaxBatchSize ids.
type DetailFetcher[T any] func(ctx context.Context, ids []string) (map[string]T, error)

// DetailEnricher resolves per-entity details through the cache, fetching
// only the ids that are not cached. Each fetched detail is cached on its own
// so later searches sharing the entity can reuse it.
type DetailEnricher[T any] struct {
	namespace string
	fetch     DetailFetcher[T]
	cache     domain.Cache
	ttl       time.Duration
	batchSize int
	logger    *zap.Logger
}

// NewDetailEnricher creates an enricher storing entries under namespace.
// batchSize is clamped to 1..domain.MaxBatchSize.
func NewDetailEnricher[T any](
	namespace string,
	fetch DetailFetcher[T],
	cache domain.Cache,
	ttl time.Duration,
	batchSize int,
	logger *zap.Logger,
) *DetailEnricher[T] {
	if batchSize < 1 || batchSize > domain.MaxBatchSize {
		batchSize = domain.MaxBatchSize
	}

	return &DetailEnricher[T]{
		namespace: namespace,
		fetch:     fetch,
		cache:     cache,
		ttl:       ttl,
		batchSize: batchSize,
		logger:    logger.With(zap.String("namespace", namespace)),
	}
}

// Enrich returns the details it could resolve for ids, keyed by id.
// Ids that could not be resolved are absent. A failed chunk is logged and
// skipped; the remaining chunks still run.
func (e *DetailEnricher[T]) Enrich(ctx context.Context, ids []string) map[string]T {
	distinct := distinctSorted(ids)
	result := make(map[string]T, len(distinct))

	missing := make([]string, 0, len(distinct))
	for _, id := range distinct {
		if v, ok := e.cached(ctx, id); ok {
			result[id] = v
			continue
		}
		missing = append(missing, id)
	}

	e.logger.Debug("details partitioned",
		zap.Int("cached", len(result)),
		zap.Int("to_fetch", len(missing)),
	)

	for start := 0; start < len(missing); start += e.batchSize {
		if ctx.Err() != nil {
			e.logger.Warn("detail enrichment aborted",
				zap.Int("remaining", len(missing)-start),
				zap.Error(ctx.Err()),
			)
			break
		}

		chunk := missing[start:min(start+e.batchSize, len(missing))]
		fetched, err := e.fetch(ctx, chunk)
		if err != nil {
			e.logger.Warn("detail chunk failed",
				zap.Int("chunk_size", len(chunk)),
				zap.String("first_id", chunk[0]),
				zap.Error(err),
			)
			continue
		}

		for id, v := range fetched {
			result[id] = v
			e.store(ctx, id, v)
		}
	}

	return result
}

// cached reads one entry. Undecodable entries count as misses.
func (e *DetailEnricher[T]) cached(ctx context.Context, id string) (T, bool) {
	var v T

	data, err := e.cache.Get(ctx, domain.DetailCacheKey(e.namespace, id))
	if err != nil {
		e.logger.Warn("cache read failed", zap.String("id", id), zap.Error(err))
		return v, false
	}
	if data == nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		e.logger.Warn("cache entry undecodable", zap.String("id", id), zap.Error(err))
		return v, false
	}

	return v, true
}

func (e *DetailEnricher[T]) store(ctx context.Context, id string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		e.logger.Warn("cache encode failed", zap.String("id", id), zap.Error(err))
		return
	}
	if err := e.cache.Set(ctx, domain.DetailCacheKey(e.namespace, id), data, e.ttl); err != nil {
		e.logger.Warn("cache write failed", zap.String("id", id), zap.Error(err))
	}
}

func distinctSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
