package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

type ValidationHandler struct {
	svc *service.ValidationService
}

func NewValidationHandler(svc *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{svc: svc}
}

// List handles GET /api/validations
func (h *ValidationHandler) List(c fiber.Ctx) error {
	filter := model.ValidationFilter{
		Limit:  middleware.ClampLimit(fiber.Query[int](c, "limit", middleware.DefaultListLimit)),
		Offset: middleware.ClampOffset(fiber.Query[int](c, "offset", 0)),
	}

	if raw := fiber.Query[string](c, "dataPointId"); raw != "" {
		id, errMsg := middleware.ValidateID("dataPointId", raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		filter.DataPointID = id
	}
	if raw := fiber.Query[string](c, "userId"); raw != "" {
		id, errMsg := middleware.ValidateID("userId", raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		filter.UserID = id
	}

	resp, err := h.svc.List(c.Context(), filter)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch validations")
	}

	return c.JSON(resp)
}

// Submit handles POST /api/validations
func (h *ValidationHandler) Submit(c fiber.Ctx) error {
	var req model.ValidationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.DataPointID == "" || req.ValidationType == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "dataPointId and validationType are required")
	}

	dataPointID, errMsg := middleware.ValidateID("dataPointId", req.DataPointID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.DataPointID = dataPointID

	if !repository.ValidValidationTypes[req.ValidationType] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TYPE",
			"Invalid validation type. Must be one of: confirm, dispute, flag")
	}

	comment, errMsg := middleware.ValidateComment(req.Comment)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Comment = comment

	urls, errMsg := middleware.ValidateEvidenceURLs(req.EvidenceURLs)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.EvidenceURLs = urls

	userAgent := middleware.ValidateUserAgent(c.Get("User-Agent"))

	resp, created, err := h.svc.Submit(c.Context(), middleware.UserID(c), req, c.IP(), userAgent)
	if err != nil {
		if errors.Is(err, repository.ErrDataPointNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Data point not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process validation")
	}

	Metrics.ValidationsTotal.WithLabelValues(req.ValidationType).Inc()

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

// Delete handles DELETE /api/validations?dataPointId=X
func (h *ValidationHandler) Delete(c fiber.Ctx) error {
	raw := fiber.Query[string](c, "dataPointId")
	if raw == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "dataPointId is required")
	}
	dataPointID, errMsg := middleware.ValidateID("dataPointId", raw)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	err := h.svc.Retract(c.Context(), middleware.UserID(c), dataPointID)
	if err != nil {
		if errors.Is(err, repository.ErrValidationNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Validation not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete validation")
	}

	return c.JSON(fiber.Map{"message": "Validation removed successfully"})
}
