package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

type DiscoveryHandler struct {
	svc *service.DiscoveryService
}

func NewDiscoveryHandler(svc *service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{svc: svc}
}

// Index handles GET /api/discovery — describes the discovery endpoints.
func (h *DiscoveryHandler) Index(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "operational",
		"service":     "Terra Atlas Discovery API",
		"description": "Neighborhood intelligence over community-validated observations",
		"endpoints": fiber.Map{
			"/api/discovery/similar": "Most-trusted data points of the same type near a reference point",
		},
	})
}

// Similar handles GET /api/discovery/similar?dataPointId=X&radiusKm=N
func (h *DiscoveryHandler) Similar(c fiber.Ctx) error {
	raw := fiber.Query[string](c, "dataPointId")
	if raw == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "dataPointId is required")
	}
	dataPointID, errMsg := middleware.ValidateID("dataPointId", raw)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	radiusKm := fiber.Query[float64](c, "radiusKm", service.DefaultSimilarRadiusKm)

	resp, err := h.svc.Similar(c.Context(), dataPointID, radiusKm)
	if err != nil {
		if errors.Is(err, repository.ErrDataPointNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Data point not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to find similar data points")
	}

	return c.JSON(resp)
}
