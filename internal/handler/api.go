package handler

import "github.com/gofiber/fiber/v3"

// Index handles GET /api — a small self-describing API document.
func Index(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":        "Terra Atlas API",
		"version":     "0.1.0",
		"description": "Community-validated renewable energy and environmental data",
		"status":      "operational",
		"endpoints": fiber.Map{
			"/api/validations":       "Community validations (confirm/dispute/flag)",
			"/api/datapoints":        "Geocoded data points with trust scores",
			"/api/discovery/similar": "Similar nearby data points with trust insights",
			"/api/data/:layer":       "GeoJSON layers (fires, earthquakes, ...)",
			"/api/auth/register":     "Account registration",
			"/api/auth/login":        "Login",
			"/api/stats":             "Platform statistics",
		},
	})
}
