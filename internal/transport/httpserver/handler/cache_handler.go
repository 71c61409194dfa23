package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"video-discovery-service/internal/transport/httpserver/dto"
	"video-discovery-service/internal/validator"
)

// CacheInvalidator drops cached entity details.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, videoID, channelID string) error
}

// CacheHandler exposes detail cache invalidation. Callers that mutate
// video or channel data use it to force fresh details on the next search.
type CacheHandler struct {
	invalidator CacheInvalidator
	validator   *validator.Validator
	logger      *zap.Logger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(inv CacheInvalidator, v *validator.Validator, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		invalidator: inv,
		validator:   v,
		logger:      logger,
	}
}

// InvalidateVideo handles DELETE /api/v1/cache/videos/:id
func (h *CacheHandler) InvalidateVideo(c *fiber.Ctx) error {
	return h.invalidate(c, dto.InvalidateRequest{VideoID: c.Params("id")})
}

// InvalidateChannel handles DELETE /api/v1/cache/channels/:id
func (h *CacheHandler) InvalidateChannel(c *fiber.Ctx) error {
	return h.invalidate(c, dto.InvalidateRequest{ChannelID: c.Params("id")})
}

// Invalidate handles POST /api/v1/cache/invalidate
func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	var req dto.InvalidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	return h.invalidate(c, req)
}

func (h *CacheHandler) invalidate(c *fiber.Ctx, req dto.InvalidateRequest) error {
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	if err := h.invalidator.Invalidate(c.UserContext(), req.VideoID, req.ChannelID); err != nil {
		h.logger.Error("cache invalidation failed",
			zap.String("video_id", req.VideoID),
			zap.String("channel_id", req.ChannelID),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache invalidation failed",
			Code:  "INVALIDATION_FAILED",
		})
	}

	return c.JSON(dto.InvalidateResponse{
		VideoID:   req.VideoID,
		ChannelID: req.ChannelID,
	})
}
