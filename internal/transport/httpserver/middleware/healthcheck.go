// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// readinessTimeout bounds a single readiness probe.
const readinessTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (cache backend reachable)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(cache Pinger) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if cache == nil {
				return false
			}

			ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
			defer cancel()

			return cache.Ping(ctx) == nil
		},
	})
}
