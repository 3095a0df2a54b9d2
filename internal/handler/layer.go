package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

type LayerHandler struct {
	svc *service.LayerService
}

func NewLayerHandler(svc *service.LayerService) *LayerHandler {
	return &LayerHandler{svc: svc}
}

// Get handles GET /api/data/:layer — serves a pre-generated GeoJSON layer.
func (h *LayerHandler) Get(c fiber.Ctx) error {
	body, err := h.svc.Fetch(c.Context(), c.Params("layer"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownLayer) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_LAYER", "Invalid layer specified")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load layer data")
	}

	c.Set("Content-Type", "application/geo+json")
	return c.Send(body)
}
