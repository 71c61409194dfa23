package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS returns a middleware allowing browser clients from origins.
// An empty list allows any origin.
func CORS(origins ...string) fiber.Handler {
	allow := "*"
	if len(origins) > 0 {
		allow = strings.Join(origins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins: allow,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	})
}
