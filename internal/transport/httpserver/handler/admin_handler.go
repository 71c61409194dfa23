package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"video-discovery-service/internal/app/service"
	"video-discovery-service/internal/job"
	"video-discovery-service/internal/transport/httpserver/dto"
)

// WarmupTrigger runs the cache warmup once.
type WarmupTrigger interface {
	Trigger(ctx context.Context) ([]service.WarmupResult, error)
}

// StatsReporter reports search cache counters.
type StatsReporter interface {
	Stats() service.CacheStats
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	warmup WarmupTrigger
	stats  StatsReporter
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
// warmup may be nil when warmup is disabled.
func NewAdminHandler(warmup WarmupTrigger, stats StatsReporter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		warmup: warmup,
		stats:  stats,
		logger: logger,
	}
}

// Warmup handles POST /api/v1/admin/warmup
func (h *AdminHandler) Warmup(c *fiber.Ctx) error {
	if h.warmup == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "warmup is disabled",
			Code:  "WARMUP_DISABLED",
		})
	}

	h.logger.Info("manual warmup triggered")

	results, err := h.warmup.Trigger(c.UserContext())
	if errors.Is(err, job.ErrWarmupInProgress) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  "WARMUP_IN_PROGRESS",
		})
	}
	if err != nil {
		h.logger.Error("manual warmup failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "warmup failed",
			Code:  "WARMUP_FAILED",
		})
	}

	return c.JSON(dto.FromWarmupResults(results))
}

// CacheStats handles GET /api/v1/admin/cache/stats
func (h *AdminHandler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(dto.FromCacheStats(h.stats.Stats()))
}
