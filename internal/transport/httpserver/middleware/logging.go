// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Logger returns a middleware that logs HTTP requests.
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
			zap.String("request_id", requestID(c)),
		}
		if q := c.Query("q"); q != "" {
			fields = append(fields, zap.String("q", q))
		}

		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request error", fields...)
		default:
			logger.Debug("request completed", fields...)
		}

		return err
	}
}

// requestID returns the id assigned by the requestid middleware, if any.
func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}

	return c.GetRespHeader(fiber.HeaderXRequestID)
}
