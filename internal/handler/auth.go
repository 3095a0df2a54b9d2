package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/model"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	userAgent := middleware.ValidateUserAgent(c.Get("User-Agent"))

	resp, err := h.svc.Register(c.Context(), req, c.IP(), userAgent)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case errors.Is(err, repository.ErrEmailTaken):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "EMAIL_TAKEN", "Email already registered")
		case errors.Is(err, repository.ErrUsernameTaken):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "USERNAME_TAKEN", "Username already taken")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	userAgent := middleware.ValidateUserAgent(c.Get("User-Agent"))

	resp, err := h.svc.Login(c.Context(), req, c.IP(), userAgent)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
	}

	return c.JSON(resp)
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	user, err := h.svc.Profile(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch profile")
	}

	return c.JSON(user)
}
