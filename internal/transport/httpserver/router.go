// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"classifieds-service/internal/app/service"
	"classifieds-service/internal/captcha"
	infraredis "classifieds-service/internal/infra/redis"
	"classifieds-service/internal/transport/httpserver/handler"
	"classifieds-service/internal/transport/httpserver/middleware"
	"classifieds-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	BodyLimit      int
	Debug          bool
	DefaultCountry string
	DataDir        string
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	listingSvc *service.ListingService,
	adminSvc *service.AdminService,
	moderationSvc *service.ModerationService,
	translateSvc *service.TranslateService,
	captchaStore *captcha.Store,
	presence *infraredis.Presence,
	redisClient *redis.Client,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "classifieds-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(cfg.DataDir, redisClient))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	// Create handlers
	listingHandler := handler.NewListingHandler(listingSvc, v, cfg.DefaultCountry, logger)
	adminHandler := handler.NewAdminHandler(adminSvc, moderationSvc, v, cfg.DefaultCountry, logger)
	publicHandler := handler.NewPublicHandler(moderationSvc, translateSvc, captchaStore, presence, v, logger)

	// Register routes
	registerRoutes(app, listingHandler, adminHandler, publicHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	listingHandler *handler.ListingHandler,
	adminHandler *handler.AdminHandler,
	publicHandler *handler.PublicHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	api := app.Group("/api")

	// Public read surface
	api.Get("/listings/:category", listingHandler.GetListings)
	api.Get("/city-counts/:category", listingHandler.CityCounts)
	api.Get("/medicine-type-counts", listingHandler.MedicineTypeCounts)
	api.Get("/kids-type-counts", listingHandler.KidsTypeCounts)
	api.Get("/status", listingHandler.Status)
	api.Post("/add-listing", listingHandler.AddListing)

	// Submission pipeline and utilities
	api.Get("/captcha", publicHandler.Captcha)
	api.Post("/submit-listing", publicHandler.SubmitListing)
	api.Post("/translate", publicHandler.Translate)
	api.Get("/ping", publicHandler.Ping)
	api.Get("/online", publicHandler.Online)

	// Admin routes
	admin := api.Group("/admin")
	admin.Post("/auth", adminHandler.Auth)
	admin.Post("/get-listing", adminHandler.GetListing)
	admin.Post("/delete-listing", adminHandler.DeleteListing)
	admin.Post("/move-listing", adminHandler.MoveListing)
	admin.Post("/toggle-visibility", adminHandler.ToggleVisibility)
	admin.Post("/bulk-hide", adminHandler.BulkHide)
	admin.Post("/edit-listing", adminHandler.EditListing)
	admin.Post("/pending", adminHandler.Pending)
	admin.Post("/moderate", adminHandler.Moderate)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log based on status code - 404s are common and not server errors
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
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
