// Package provider provides HTTP client utilities for external video platforms.
package provider

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ClientConfig holds configuration for a platform client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration. MaxAttempts of 0 disables retries.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// NewRestyClient creates a Resty HTTP client for the platform API.
// The API key, when set, is sent as the "key" query parameter on every request.
func NewRestyClient(cfg ClientConfig) *resty.Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json")

	if cfg.APIKey != "" {
		client.SetQueryParam("key", cfg.APIKey)
	}

	if cfg.Retry.MaxAttempts > 0 {
		client.
			SetRetryCount(cfg.Retry.MaxAttempts).
			SetRetryWaitTime(cfg.Retry.WaitTime).
			SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				// Retry on network errors or 5xx status codes
				if err != nil {
					return true
				}

				return r.StatusCode() >= 500
			})
	}

	return client
}

// NewCircuitBreaker creates a circuit breaker for a platform client.
// isSuccessful decides which errors count as failures; nil counts every error.
func NewCircuitBreaker[T any](name string, cfg CBConfig, isSuccessful func(error) bool, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}

	settings := gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: isSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= minRequests && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return gobreaker.NewCircuitBreaker[T](settings)
}
