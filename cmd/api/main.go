// Package main is the entry point for the video-discovery-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"video-discovery-service/internal/app/service"
	"video-discovery-service/internal/config"
	"video-discovery-service/internal/domain"
	"video-discovery-service/internal/infra/memory"
	"video-discovery-service/internal/infra/provider"
	"video-discovery-service/internal/infra/provider/youtube"
	rediscache "video-discovery-service/internal/infra/redis"
	"video-discovery-service/internal/job"
	"video-discovery-service/internal/logger"
	"video-discovery-service/internal/transport/httpserver"
	"video-discovery-service/internal/validator"
	"video-discovery-service/pkg/locker"
)

// cacheBackend is a domain.Cache that can also be probed for readiness.
type cacheBackend interface {
	domain.Cache
	Ping(ctx context.Context) error
}

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Service: cfg.App.Name,
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting video-discovery-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	if cfg.YouTube.APIKey == "" {
		log.Warn("youtube.api_key is empty, platform calls will be rejected")
	}

	// Cache and lock backend
	cache, distLocker, closeCache, err := newCacheBackend(context.Background(), cfg, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer closeCache()

	// Video platform client
	platform := youtube.New(
		provider.ClientConfig{
			BaseURL: cfg.YouTube.BaseURL,
			APIKey:  cfg.YouTube.APIKey,
			Timeout: cfg.YouTube.Timeout,
			Retry: provider.RetryConfig{
				MaxAttempts: cfg.YouTube.Retry.MaxAttempts,
				WaitTime:    cfg.YouTube.Retry.WaitTime,
				MaxWaitTime: cfg.YouTube.Retry.MaxWaitTime,
			},
			CB: provider.CBConfig{
				MaxRequests:  cfg.YouTube.CB.MaxRequests,
				Interval:     cfg.YouTube.CB.Interval,
				Timeout:      cfg.YouTube.CB.Timeout,
				FailureRatio: cfg.YouTube.CB.FailureRatio,
				MinRequests:  cfg.YouTube.CB.MinRequests,
			},
		},
		log.Logger,
	)

	log.Info("video platform client ready",
		zap.String("platform", platform.Name()),
		zap.String("base_url", cfg.YouTube.BaseURL),
	)

	// Create services
	discoverySvc := service.NewDiscoveryService(
		platform,
		cache,
		domain.NewScorer(cfg.Scoring),
		service.DiscoveryConfig{
			SearchTTL:  cfg.Cache.SearchTTL,
			VideoTTL:   cfg.Cache.VideoTTL,
			ChannelTTL: cfg.Cache.ChannelTTL,
			BatchSize:  cfg.YouTube.BatchSize,
			Defaults:   cfg.YouTube.SearchDefaults(),
		},
		log.Logger,
	)
	invalidator := service.NewInvalidator(cache, log.Logger)

	deps := httpserver.Dependencies{
		Searcher:    discoverySvc,
		Invalidator: invalidator,
		Stats:       discoverySvc,
		Health:      cache,
	}

	// Warmup scheduler with distributed locking
	var scheduler *job.WarmupScheduler
	if cfg.Warmup.Enabled {
		warmupSvc := service.NewWarmupService(discoverySvc, cfg.Warmup.Queries, cfg.Warmup.MaxResults, log.Logger)
		scheduler = job.NewWarmupScheduler(
			warmupSvc,
			job.WarmupConfig{
				Interval:  cfg.Warmup.Interval,
				Timeout:   cfg.Warmup.Timeout,
				OnStartup: cfg.Warmup.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		// Assigned only when enabled so the handler sees a nil interface otherwise.
		deps.Warmup = scheduler
	}

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:        cfg.App.Port,
			BodyLimit:   1024 * 1024, // 1MB
			CORSOrigins: cfg.App.CORSOrigins,
		},
		deps,
		validator.New(),
		log.Logger,
	)

	if scheduler != nil {
		scheduler.Start(cfg.Warmup.OnStartup)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// newCacheBackend builds the configured cache and the locker that matches it.
// The returned func releases backend resources.
func newCacheBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (cacheBackend, locker.DistributedLocker, func(), error) {
	if cfg.Cache.Backend == config.CacheBackendMemory {
		log.Info("using in-memory cache",
			zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval),
		)

		return memory.NewCache(cfg.Cache.CleanupInterval, log), locker.NewLocalLocker(log), func() {}, nil
	}

	client, err := rediscache.NewClient(ctx, rediscache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
		zap.String("key_prefix", cfg.Cache.KeyPrefix),
	)

	cache := rediscache.NewCache(client, log, cfg.Cache.KeyPrefix)
	distLocker := locker.NewRedisLocker(client, cfg.Cache.KeyPrefix, log)

	return cache, distLocker, func() { _ = client.Close() }, nil
}
