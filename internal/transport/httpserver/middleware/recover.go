package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"video-discovery-service/internal/transport/httpserver/dto"
)

// Recover returns a middleware that turns handler panics into a 500 JSON response.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("error", r),
					zap.String("stack", string(debug.Stack())),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.String("request_id", requestID(c)),
				)

				err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: "internal server error",
					Code:  "PANIC",
				})
			}
		}()

		return c.Next()
	}
}
