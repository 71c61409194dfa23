// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"video-discovery-service/internal/domain"
	"video-discovery-service/internal/transport/httpserver/dto"
	"video-discovery-service/internal/validator"
)

// VideoSearcher runs a discovery search.
type VideoSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchPayload, error)
}

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	service   VideoSearcher
	validator *validator.Validator
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc VideoSearcher, v *validator.Validator, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Search handles GET /api/v1/videos/search
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	payload, err := h.service.Search(c.UserContext(), req.ToDomain())
	if err != nil {
		return h.searchError(c, err)
	}

	return c.JSON(payload)
}

// searchError maps platform failures to 502 and everything else to 500.
func (h *SearchHandler) searchError(c *fiber.Ctx, err error) error {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:  "Failed to fetch videos from YouTube",
			Code:   "UPSTREAM_ERROR",
			Status: upstream.Status,
		})
	}

	var transport *domain.TransportError
	if errors.As(err, &transport) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:   "An unexpected error occurred",
			Code:    "TRANSPORT_ERROR",
			Details: transport.Error(),
		})
	}

	h.logger.Error("search failed", zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "search failed",
		Code:  "INTERNAL_ERROR",
	})
}
