// Package youtube implements domain.VideoPlatform against the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"video-discovery-service/internal/domain"
	"video-discovery-service/internal/infra/provider"
)

// API paths relative to the configured base URL.
const (
	SearchEndpoint   = "/search"
	VideosEndpoint   = "/videos"
	ChannelsEndpoint = "/channels"
)

// Client implements domain.VideoPlatform for YouTube.
type Client struct {
	name   string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new YouTube client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	const name = "youtube"

	return &Client{
		name:   name,
		client: provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response](name, cfg.CB, countsAsSuccess, logger),
		logger: logger.With(zap.String("platform", name)),
	}
}

// Name returns the platform identifier.
func (c *Client) Name() string {
	return c.name
}

// Search issues one search call with the canonical parameters.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchPage, error) {
	var result SearchListResponse
	if err := c.get(ctx, SearchEndpoint, params, &result); err != nil {
		c.logger.Warn("youtube search failed",
			zap.String("q", params["q"]),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, err
	}

	page := &domain.SearchPage{
		Items:         make([]domain.SearchItem, 0, len(result.Items)),
		NextPageToken: result.NextPageToken,
		PrevPageToken: result.PrevPageToken,
		PlatformTotal: result.PageInfo.TotalResults,
	}
	for i := range result.Items {
		page.Items = append(page.Items, result.Items[i].ToDomain())
	}

	c.logger.Debug("youtube search completed",
		zap.String("q", params["q"]),
		zap.Int("count", len(page.Items)),
		zap.Int("platform_total", page.PlatformTotal),
	)

	return page, nil
}

// VideoDetails fetches statistics and durations for up to domain.MaxBatchSize ids.
func (c *Client) VideoDetails(ctx context.Context, ids []string) (map[string]domain.VideoDetail, error) {
	if err := checkBatch(ids); err != nil {
		return nil, err
	}

	var result VideoListResponse
	query := map[string]string{
		"part": "contentDetails,statistics",
		"id":   strings.Join(ids, ","),
	}
	if err := c.get(ctx, VideosEndpoint, query, &result); err != nil {
		return nil, err
	}

	details := make(map[string]domain.VideoDetail, len(result.Items))
	for i := range result.Items {
		detail, err := result.Items[i].ToDomain()
		if err != nil {
			c.logger.Debug("item skipped",
				zap.String("endpoint", VideosEndpoint),
				zap.String("id", result.Items[i].ID),
				zap.Error(err),
			)

			continue
		}
		details[detail.ID] = detail
	}

	return details, nil
}

// ChannelDetails fetches avatars for up to domain.MaxBatchSize channel ids.
func (c *Client) ChannelDetails(ctx context.Context, ids []string) (map[string]domain.ChannelDetail, error) {
	if err := checkBatch(ids); err != nil {
		return nil, err
	}

	var result ChannelListResponse
	query := map[string]string{
		"part": "snippet",
		"id":   strings.Join(ids, ","),
	}
	if err := c.get(ctx, ChannelsEndpoint, query, &result); err != nil {
		return nil, err
	}

	details := make(map[string]domain.ChannelDetail, len(result.Items))
	for i := range result.Items {
		detail, ok := result.Items[i].ToDomain()
		if !ok {
			c.logger.Debug("item skipped",
				zap.String("endpoint", ChannelsEndpoint),
				zap.String("id", result.Items[i].ID),
			)

			continue
		}
		details[detail.ChannelID] = detail
	}

	return details, nil
}

// get performs a GET through the circuit breaker and decodes the body into result.
func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, result any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(query).
			SetResult(result).
			Get(endpoint)
		if err != nil {
			return nil, &domain.TransportError{Endpoint: endpoint, Err: err}
		}
		if r.IsError() {
			return nil, &domain.UpstreamError{Endpoint: endpoint, Status: r.StatusCode()}
		}

		return r, nil
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("%w: %v", domain.ErrCircuitOpen, err),
		}
	}

	return err
}

// countsAsSuccess keeps client-side rejections (4xx) and caller cancellation
// from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Status < 500
	}

	return false
}

func checkBatch(ids []string) error {
	if len(ids) > domain.MaxBatchSize {
		return fmt.Errorf("batch of %d ids exceeds limit of %d", len(ids), domain.MaxBatchSize)
	}

	return nil
}
