// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"video-discovery-service/internal/transport/httpserver/dto"
	"video-discovery-service/internal/transport/httpserver/handler"
	"video-discovery-service/internal/transport/httpserver/middleware"
	"video-discovery-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port        int
	BodyLimit   int
	CORSOrigins []string
}

// Dependencies holds the application services the routes are served by.
// Warmup may be nil when the warmup job is disabled.
type Dependencies struct {
	Searcher    handler.VideoSearcher
	Invalidator handler.CacheInvalidator
	Warmup      handler.WarmupTrigger
	Stats       handler.StatsReporter
	Health      middleware.Pinger
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, v *validator.Validator, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "video-discovery-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Health))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(compress.New())

	searchHandler := handler.NewSearchHandler(deps.Searcher, v, logger)
	cacheHandler := handler.NewCacheHandler(deps.Invalidator, v, logger)
	adminHandler := handler.NewAdminHandler(deps.Warmup, deps.Stats, logger)

	registerRoutes(app, searchHandler, cacheHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	searchHandler *handler.SearchHandler,
	cacheHandler *handler.CacheHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	v1.Get("/videos/search", searchHandler.Search)

	cache := v1.Group("/cache")
	cache.Delete("/videos/:id", cacheHandler.InvalidateVideo)
	cache.Delete("/channels/:id", cacheHandler.InvalidateChannel)
	cache.Post("/invalidate", cacheHandler.Invalidate)

	admin := v1.Group("/admin")
	admin.Post("/warmup", adminHandler.Warmup)
	admin.Get("/cache/stats", adminHandler.CacheStats)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "UNHANDLED_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			errCode = "NOT_FOUND"
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code == fiber.StatusMethodNotAllowed:
			errCode = "METHOD_NOT_ALLOWED"
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			errCode = "BAD_REQUEST"
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
