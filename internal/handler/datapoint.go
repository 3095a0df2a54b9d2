package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

type DataPointHandler struct {
	svc *service.DataPointService
}

func NewDataPointHandler(svc *service.DataPointService) *DataPointHandler {
	return &DataPointHandler{svc: svc}
}

// GetByID handles GET /api/datapoints/:id
func (h *DataPointHandler) GetByID(c fiber.Ctx) error {
	id, errMsg := middleware.ValidateID("id", c.Params("id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	dp, cached, err := h.svc.Lookup(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDataPointNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Data point not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup data point")
	}

	if cached {
		Metrics.CacheHits.Inc()
	} else {
		Metrics.CacheMisses.Inc()
	}

	return c.JSON(dp)
}

// List handles GET /api/datapoints
func (h *DataPointHandler) List(c fiber.Ctx) error {
	filter := model.DataPointFilter{
		DataType: fiber.Query[string](c, "dataType"),
		Limit:    middleware.ClampLimit(fiber.Query[int](c, "limit", middleware.DefaultListLimit)),
		Offset:   middleware.ClampOffset(fiber.Query[int](c, "offset", 0)),
	}

	if raw := fiber.Query[string](c, "minTrust"); raw != "" {
		minTrust, err := strconv.ParseFloat(raw, 64)
		if err != nil || minTrust < 0 || minTrust > 100 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "minTrust must be a number between 0 and 100")
		}
		filter.MinTrust = &minTrust
	}

	if raw := fiber.Query[string](c, "bbox"); raw != "" {
		bbox, errMsg := parseBBox(raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		filter.BBox = bbox
	}

	resp, err := h.svc.List(c.Context(), filter)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list data points")
	}

	return c.JSON(resp)
}

// parseBBox parses "minLat,minLng,maxLat,maxLng".
func parseBBox(raw string) (*model.BoundingBox, string) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, "bbox must be minLat,minLng,maxLat,maxLng"
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, "bbox must contain four numbers"
		}
		vals[i] = v
	}

	bbox := &model.BoundingBox{MinLat: vals[0], MinLng: vals[1], MaxLat: vals[2], MaxLng: vals[3]}
	if bbox.MinLat < -90 || bbox.MaxLat > 90 || bbox.MinLat > bbox.MaxLat {
		return nil, "bbox latitudes must be within [-90, 90] and min <= max"
	}
	if bbox.MinLng < -180 || bbox.MaxLng > 180 || bbox.MinLng > bbox.MaxLng {
		return nil, "bbox longitudes must be within [-180, 180] and min <= max"
	}
	return bbox, ""
}
