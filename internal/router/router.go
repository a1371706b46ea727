// Package router wires the fiber app: middlewares, routes and handlers.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/handlers"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/middleware"
	"github.com/soltixdb/cyclepeak/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, peakService *services.PeakService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, peakService)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)
	v1 := app.Group("/v1", authMiddleware)

	// One-shot peaks
	v1.Post("/peak/:kind", h.ComputePeak)

	// Aggregation passes
	v1.Post("/passes", h.CreatePass)
	v1.Get("/passes", h.ListPasses)
	v1.Get("/passes/:id", h.GetPass)
	v1.Post("/passes/:id/observations", h.ObservePass)
	v1.Get("/passes/:id/peak", h.PassPeak)
	v1.Delete("/passes/:id", h.DeletePass)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, peakService *services.PeakService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclepeak",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, peakService, cfg)

	return app
}
