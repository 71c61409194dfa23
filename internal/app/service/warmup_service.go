package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"video-discovery-service/internal/domain"
)

// Searcher runs one discovery call.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPayload, error)
}

// WarmupService runs a fixed set of popular queries through the engine so
// their search entries and the details they reference are cached before
// users ask for them.
type WarmupService struct {
	searcher   Searcher
	queries    []string
	maxResults int
	logger     *zap.Logger
}

// NewWarmupService creates a new WarmupService.
func NewWarmupService(searcher Searcher, queries []string, maxResults int, logger *zap.Logger) *WarmupService {
	return &WarmupService{
		searcher:   searcher,
		queries:    queries,
		maxResults: maxResults,
		logger:     logger,
	}
}

// WarmupResult holds the result of warming one query.
type WarmupResult struct {
	Query    string        `json:"query"`
	Results  int           `json:"results"`
	Duration time.Duration `json:"duration"`
	Error    error         `json:"-"`
}

// WarmAll warms every configured query concurrently.
// Returns one result per query. Partial failures are allowed.
func (s *WarmupService) WarmAll(ctx context.Context) []WarmupResult {
	results := make([]WarmupResult, len(s.queries))
	var wg sync.WaitGroup

	s.logger.Info("starting cache warmup", zap.Int("query_count", len(s.queries)))

	for i, q := range s.queries {
		wg.Add(1)
		go func(idx int, query string) {
			defer wg.Done()
			results[idx] = s.warm(ctx, query)
		}(i, q)
	}

	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	s.logger.Info("cache warmup completed",
		zap.Int("queries_warmed", len(results)-failed),
		zap.Int("queries_failed", failed),
	)

	return results
}

// Queries returns the configured warmup queries.
func (s *WarmupService) Queries() []string {
	return s.queries
}

func (s *WarmupService) warm(ctx context.Context, query string) WarmupResult {
	start := time.Now()
	result := WarmupResult{Query: query}

	req := domain.DefaultSearchRequest(query)
	if s.maxResults > 0 {
		req.MaxResults = s.maxResults
	}

	payload, err := s.searcher.Search(ctx, req)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		s.logger.Warn("warmup query failed",
			zap.String("query", query),
			zap.Error(err),
		)

		return result
	}

	result.Results = payload.TotalResults
	s.logger.Debug("warmup query completed",
		zap.String("query", query),
		zap.Int("results", result.Results),
		zap.Duration("duration", result.Duration),
	)

	return result
}
