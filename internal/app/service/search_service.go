// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"video-discovery-service/internal/domain"
)

// DiscoveryConfig holds cache lifetimes and platform defaults for discovery.
type DiscoveryConfig struct {
	SearchTTL  time.Duration
	VideoTTL   time.Duration
	ChannelTTL time.Duration
	BatchSize  int
	Defaults   domain.SearchDefaults
}

// CacheStats holds cumulative search cache counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// DiscoveryService runs the search, enrich, score and assemble pipeline
// behind the search cache.
type DiscoveryService struct {
	platform domain.VideoPlatform
	cache    domain.Cache
	scorer   *domain.Scorer
	videos   *DetailEnricher[domain.VideoDetail]
	channels *DetailEnricher[domain.ChannelDetail]
	cfg      DiscoveryConfig
	logger   *zap.Logger

	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewDiscoveryService creates a new DiscoveryService.
func NewDiscoveryService(
	platform domain.VideoPlatform,
	cache domain.Cache,
	scorer *domain.Scorer,
	cfg DiscoveryConfig,
	logger *zap.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		platform: platform,
		cache:    cache,
		scorer:   scorer,
		videos: NewDetailEnricher[domain.VideoDetail](domain.NamespaceVideoDetail,
			platform.VideoDetails, cache, cfg.VideoTTL, cfg.BatchSize, logger),
		channels: NewDetailEnricher[domain.ChannelDetail](domain.NamespaceChannelDetail,
			platform.ChannelDetails, cache, cfg.ChannelTTL, cfg.BatchSize, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// Search returns the discovery payload for req, serving it from the search
// cache when an entry for the same normalized parameters exists.
//
// Upstream and transport failures of the search call are returned as
// *domain.UpstreamError or *domain.TransportError and are never cached.
// Concurrent misses for the same key share one pipeline run.
func (s *DiscoveryService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPayload, error) {
	req.Normalize()

	params := domain.NormalizeQuery(req, s.cfg.Defaults, s.scorer.Config().AugmentationTerms)
	key := domain.SearchCacheKey(req.Query, params)

	if data := s.lookup(ctx, key); data != nil {
		if payload, err := decodePayload(data); err == nil {
			s.hits.Add(1)
			s.logger.Debug("cache hit", zap.String("key", key))

			return payload, nil
		}
		s.logger.Warn("cached payload undecodable", zap.String("key", key))
	}

	s.misses.Add(1)
	s.logger.Debug("cache miss",
		zap.String("key", key),
		zap.String("q", params["q"]),
	)

	data, shared, err := s.fill(ctx, key, req, params)
	if err != nil && shared && isContextErr(err) && ctx.Err() == nil {
		// The run this call joined was canceled by its own caller.
		s.logger.Debug("coalesced run canceled, retrying", zap.String("key", key))
		data, shared, err = s.fill(ctx, key, req, params)
	}
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("search coalesced", zap.String("key", key))
	}

	return decodePayload(data)
}

// fill runs the pipeline once per key across concurrent callers and caches
// the encoded payload.
func (s *DiscoveryService) fill(ctx context.Context, key string, req domain.SearchRequest, params domain.SearchParams) ([]byte, bool, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		payload, err := s.discover(ctx, req, params)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		if err := s.cache.Set(ctx, key, data, s.cfg.SearchTTL); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}

		return data, nil
	})
	if err != nil {
		return nil, shared, err
	}

	return v.([]byte), shared, nil
}

// Stats returns the search cache hit and miss counters.
func (s *DiscoveryService) Stats() CacheStats {
	return CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// discover runs one uncached pipeline pass.
func (s *DiscoveryService) discover(ctx context.Context, req domain.SearchRequest, params domain.SearchParams) (*domain.SearchPayload, error) {
	start := time.Now()

	page, err := s.platform.Search(ctx, params)
	if err != nil {
		s.logger.Error("search failed",
			zap.String("query", req.Query),
			zap.Error(err),
		)

		return nil, fmt.Errorf("search videos: %w", err)
	}

	s.logger.Debug("search page received",
		zap.String("query", req.Query),
		zap.Int("items", len(page.Items)),
		zap.Int("platform_total", page.PlatformTotal),
	)

	if len(page.Items) == 0 {
		return noVideosPayload(req.Query, page), nil
	}

	candidates, skipped := domain.ExtractCandidates(page.Items)
	s.logSkipped(skipped)
	if len(candidates) == 0 {
		return noValidVideosPayload(req.Query, page, skipped), nil
	}

	videos := s.videos.Enrich(ctx, domain.VideoIDs(candidates))
	channels := s.channels.Enrich(ctx, domain.ChannelIDs(candidates))

	// Enrichment stops early on cancellation; a payload ranked on partial
	// details must not reach the search cache.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrich details: %w", err)
	}

	outcome := s.scorer.Rank(req.Query, candidates, videos, domain.DurationBounds{
		Min: req.MinDuration,
		Max: req.MaxDuration,
	})
	s.logSkipped(outcome.Skipped)
	for _, id := range outcome.Bypassed {
		s.logger.Debug("threshold bypassed", zap.String("id", id))
	}

	var payload *domain.SearchPayload
	if len(outcome.Results) == 0 {
		payload = fallbackPayload(req.Query, page, channels)
	} else {
		payload = rankedPayload(req.Query, page, outcome.Results, channels)
	}

	s.logger.Info("search completed",
		zap.String("query", req.Query),
		zap.Int("items", len(page.Items)),
		zap.Int("results", payload.TotalResults),
		zap.Bool("fallback", payload.IsFallback()),
		zap.Duration("duration", time.Since(start)),
	)

	return payload, nil
}

// lookup reads the search cache; read errors degrade to a miss.
func (s *DiscoveryService) lookup(ctx context.Context, key string) []byte {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	return data
}

func (s *DiscoveryService) logSkipped(skipped []domain.SkippedItem) {
	for _, sk := range skipped {
		s.logger.Debug("item skipped",
			zap.Int("index", sk.Index),
			zap.String("id", sk.ID),
			zap.String("reason", string(sk.Reason)),
			zap.Float64("score", sk.Score),
		)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func decodePayload(data []byte) (*domain.SearchPayload, error) {
	var payload domain.SearchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	return &payload, nil
}
