// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"video-discovery-service/internal/app/service"
	"video-discovery-service/pkg/locker"
)

// Lock keys shared by every instance.
const (
	scheduledLockKey = "warmup:scheduler:lock"
	manualLockKey    = "warmup:manual:lock"
)

// ErrWarmupInProgress is returned by Trigger when another run holds the lock.
var ErrWarmupInProgress = errors.New("warmup already in progress")

// Warmer warms the search cache.
type Warmer interface {
	WarmAll(ctx context.Context) []service.WarmupResult
	Queries() []string
}

// WarmupScheduler runs periodic cache warmup with distributed locking
// so only one instance warms the shared cache per interval.
type WarmupScheduler struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WarmupConfig holds warmup scheduler configuration.
type WarmupConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewWarmupScheduler creates a new WarmupScheduler.
func NewWarmupScheduler(
	warmer Warmer,
	cfg WarmupConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *WarmupScheduler {
	return &WarmupScheduler{
		warmer:   warmer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   locker,
	}
}

// Start begins the background warmup job.
func (s *WarmupScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting warmup scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
		zap.Strings("queries", s.warmer.Queries()),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler. It is a no-op if Start was never called.
func (s *WarmupScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping warmup scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("warmup scheduler stopped")
}

// Trigger runs one warmup immediately, outside the schedule.
// Returns ErrWarmupInProgress if another manual run holds the lock.
func (s *WarmupScheduler) Trigger(ctx context.Context) ([]service.WarmupResult, error) {
	acquired, err := s.locker.Acquire(ctx, manualLockKey, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("acquire warmup lock: %w", err)
	}
	if !acquired {
		return nil, ErrWarmupInProgress
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), manualLockKey); err != nil {
			s.logger.Error("failed to release manual warmup lock", zap.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.warmer.WarmAll(runCtx), nil
}

func (s *WarmupScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeWarmup()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeWarmup()
		}
	}
}

// executeWarmup performs a warmup with distributed locking and timeout.
//
// Locking behavior:
//   - Lock TTL = interval duration (cooldown model, not timeout)
//   - Success: Lock held for full interval to prevent duplicate warmups
//   - Failure: Lock released immediately to allow retry by another instance
func (s *WarmupScheduler) executeWarmup() {
	acquired, err := s.locker.Acquire(s.ctx, scheduledLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))

		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming the cache, skipping execution")

		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	results := s.warmer.WarmAll(ctx)

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}

	if failed > 0 {
		if err := s.locker.Release(s.ctx, scheduledLockKey); err != nil {
			s.logger.Error("failed to release lock after warmup error", zap.Error(err))
		}
		s.logger.Info("warmup completed with errors, lock released for retry",
			zap.Int("queries_warmed", len(results)-failed),
			zap.Int("queries_failed", failed),
		)

		return
	}

	s.logger.Info("warmup completed successfully, lock held for cooldown",
		zap.Int("queries_warmed", len(results)),
		zap.Duration("cooldown", s.interval),
	)
}
