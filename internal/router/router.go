package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Luminous-Dynamics/terra-atlas/internal/handler"
	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Validation *handler.ValidationHandler
	Auth       *handler.AuthHandler
	DataPoint  *handler.DataPointHandler
	Discovery  *handler.DiscoveryHandler
	Layer      *handler.LayerHandler
	Stats      *handler.StatsHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given
// Fiber app. requireAuth is the bearer-token middleware guarding mutations.
func Setup(app *fiber.App, h *Handlers, requireAuth fiber.Handler, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	readLimit := middleware.NewReadRateLimiter().Handler()
	submitLimit := middleware.NewValidationSubmitRateLimiter().Handler()
	deleteLimit := middleware.NewValidationDeleteRateLimiter().Handler()
	authLimit := middleware.NewAuthRateLimiter().Handler()
	statsLimit := middleware.NewStatsRateLimiter().Handler()

	// API routes
	api := app.Group("/api")
	api.Get("/", handler.Index)

	// Validation routes
	api.Get("/validations", h.Validation.List, readLimit)
	api.Post("/validations", h.Validation.Submit, requireAuth, submitLimit)
	api.Delete("/validations", h.Validation.Delete, requireAuth, deleteLimit)

	// Auth routes
	api.Post("/auth/register", h.Auth.Register, authLimit)
	api.Post("/auth/login", h.Auth.Login, authLimit)
	api.Get("/users/me", h.Auth.Me, requireAuth)

	// Data point routes
	api.Get("/datapoints", h.DataPoint.List, readLimit)
	api.Get("/datapoints/:id", h.DataPoint.GetByID, readLimit)

	// Discovery routes
	api.Get("/discovery", h.Discovery.Index, readLimit)
	api.Get("/discovery/similar", h.Discovery.Similar, readLimit)

	// Layer routes
	api.Get("/data/:layer", h.Layer.Get, readLimit)

	// Stats routes
	api.Get("/stats", h.Stats.GetStats, statsLimit)
}
