package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// RequireAuth returns a middleware that verifies the Authorization bearer
// token (HS256 JWT) and stores the authenticated user id in request locals.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !tok.Valid {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
		}
		userID, _ := claims["userId"].(string)
		if userID == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth, or "".
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
