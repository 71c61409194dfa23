// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"video-discovery-service/internal/domain"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig            `mapstructure:"app"`
	Logger  LoggerConfig         `mapstructure:"logger"`
	Sentry  SentryConfig         `mapstructure:"sentry"`
	Redis   RedisConfig          `mapstructure:"redis"`
	Cache   CacheConfig          `mapstructure:"cache"`
	YouTube YouTubeConfig        `mapstructure:"youtube"`
	Scoring domain.ScoringConfig `mapstructure:"scoring"`
	Warmup  WarmupConfig         `mapstructure:"warmup"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	CORSOrigins []string `mapstructure:"cors_origins"` // empty allows any origin
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for the cache and warmup lock.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	Backend         string        `mapstructure:"backend"` // redis, memory
	KeyPrefix       string        `mapstructure:"key_prefix"`
	SearchTTL       time.Duration `mapstructure:"search_ttl"`
	VideoTTL        time.Duration `mapstructure:"video_ttl"`
	ChannelTTL      time.Duration `mapstructure:"channel_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"` // memory backend only
}

// YouTubeConfig holds the video platform client settings.
type YouTubeConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BatchSize  int           `mapstructure:"batch_size"`
	Language   string        `mapstructure:"language"`
	Region     string        `mapstructure:"region"`
	Definition string        `mapstructure:"definition"`
	Retry      RetryConfig   `mapstructure:"retry"`
	CB         CBConfig      `mapstructure:"circuit_breaker"`
}

// SearchDefaults returns the fixed platform parameters sent with every search.
func (c *YouTubeConfig) SearchDefaults() domain.SearchDefaults {
	return domain.SearchDefaults{
		Language:   c.Language,
		Region:     c.Region,
		Definition: c.Definition,
	}
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

// WarmupConfig holds background cache warmup settings.
type WarmupConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	Timeout    time.Duration `mapstructure:"timeout"`
	OnStartup  bool          `mapstructure:"on_startup"`
	Queries    []string      `mapstructure:"queries"`
	MaxResults int           `mapstructure:"max_results"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Pre-filling keeps the notability tiers, which have no registered keys.
	cfg := Config{Scoring: domain.DefaultScoringConfig()}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("invalid cache.backend %q: want %s or %s", c.Cache.Backend, CacheBackendRedis, CacheBackendMemory)
	}

	if c.YouTube.BaseURL == "" {
		return errors.New("youtube.base_url is required")
	}
	if c.YouTube.BatchSize < 1 || c.YouTube.BatchSize > domain.MaxBatchSize {
		return fmt.Errorf("youtube.batch_size must be between 1 and %d", domain.MaxBatchSize)
	}
	if c.Warmup.Enabled && c.Warmup.Interval <= 0 {
		return errors.New("warmup.interval must be positive when warmup is enabled")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "video-discovery-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.cors_origins", []string{})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.backend", CacheBackendRedis)
	v.SetDefault("cache.key_prefix", "video-discovery")
	v.SetDefault("cache.search_ttl", "1h")
	v.SetDefault("cache.video_ttl", "24h")
	v.SetDefault("cache.channel_ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// YouTube defaults
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.timeout", "10s")
	v.SetDefault("youtube.batch_size", domain.MaxBatchSize)
	v.SetDefault("youtube.language", "en")
	v.SetDefault("youtube.region", "US")
	v.SetDefault("youtube.definition", "high")
	v.SetDefault("youtube.retry.max_attempts", 0)
	v.SetDefault("youtube.retry.wait_time", "1s")
	v.SetDefault("youtube.retry.max_wait_time", "5s")
	v.SetDefault("youtube.circuit_breaker.max_requests", 3)
	v.SetDefault("youtube.circuit_breaker.interval", "60s")
	v.SetDefault("youtube.circuit_breaker.timeout", "30s")
	v.SetDefault("youtube.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("youtube.circuit_breaker.min_requests", 5)

	// Warmup defaults
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.interval", "30m")
	v.SetDefault("warmup.timeout", "2m")
	v.SetDefault("warmup.on_startup", true)
	v.SetDefault("warmup.queries", []string{"python", "linear algebra", "machine learning", "calculus", "web development"})
	v.SetDefault("warmup.max_results", 10)

	setScoringDefaults(v, domain.DefaultScoringConfig())
}

// setScoringDefaults registers every scalar and list scoring key so that
// APP_SCORING_* variables resolve. Notability tiers are a list of objects and
// can only be overridden from the config file.
func setScoringDefaults(v *viper.Viper, sc domain.ScoringConfig) {
	v.SetDefault("scoring.augmentation_terms", sc.AugmentationTerms)
	v.SetDefault("scoring.educational_keywords", sc.EducationalKeywords)
	v.SetDefault("scoring.spam_phrases", sc.SpamPhrases)

	v.SetDefault("scoring.spam_penalty", sc.SpamPenalty)
	v.SetDefault("scoring.educational_bonus", sc.EducationalBonus)
	v.SetDefault("scoring.query_match_weight", sc.QueryMatchWeight)
	v.SetDefault("scoring.min_score", sc.MinScore)

	tiers := map[string]domain.EngagementTier{
		"views":    sc.Views,
		"likes":    sc.Likes,
		"comments": sc.Comments,
	}
	for name, tier := range tiers {
		prefix := "scoring." + name + "."
		v.SetDefault(prefix+"high_above", tier.HighAbove)
		v.SetDefault(prefix+"high_weight", tier.HighWeight)
		v.SetDefault(prefix+"mid_above", tier.MidAbove)
		v.SetDefault(prefix+"mid_weight", tier.MidWeight)
		v.SetDefault(prefix+"penalty_below", tier.PenaltyBelow)
		v.SetDefault(prefix+"penalty", tier.Penalty)
	}

	v.SetDefault("scoring.extreme_engagement.views", sc.ExtremeEngagement.Views)
	v.SetDefault("scoring.extreme_engagement.likes", sc.ExtremeEngagement.Likes)
	v.SetDefault("scoring.moderate_engagement.views", sc.ModerateEngagement.Views)
	v.SetDefault("scoring.moderate_engagement.likes", sc.ModerateEngagement.Likes)
}
