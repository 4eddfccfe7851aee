// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
)

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (data directory reachable, Redis connected)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(dataDir string, rdb *redis.Client) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		// Liveness probe - is the application running?
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true // Always return true if the app is running
		},

		// Readiness probe - is the application ready to serve traffic?
		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			info, err := os.Stat(dataDir)
			if err != nil || !info.IsDir() {
				return false
			}
			if rdb == nil {
				return false
			}

			return rdb.Ping(c.Context()).Err() == nil
		},
	})
}
