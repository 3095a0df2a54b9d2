package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Field limits matching database schema constraints.
const (
	MaxCommentLen     = 2000
	MaxEvidenceURLs   = 10
	MaxEvidenceURLLen = 500
	MaxUserAgentLen   = 256
	DefaultListLimit  = 100
	MaxListLimit      = 500
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID checks that an entity id is a well-formed UUID. Returns the
// normalized id and an error message ("" when valid).
func ValidateID(field, id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", field + " is required"
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", field + " must be a valid UUID"
	}
	return parsed.String(), ""
}

// ValidateComment trims and bounds an optional comment.
func ValidateComment(comment string) (string, string) {
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxCommentLen {
		return "", "comment must be at most 2000 characters"
	}
	return comment, ""
}

// ValidateEvidenceURLs checks each optional evidence URL is an absolute
// http(s) URL within length limits.
func ValidateEvidenceURLs(urls []string) ([]string, string) {
	if len(urls) > MaxEvidenceURLs {
		return nil, "at most 10 evidence URLs are allowed"
	}
	out := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if len(raw) > MaxEvidenceURLLen {
			return nil, "evidence URLs must be at most 500 characters"
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, "evidence URLs must be absolute http(s) URLs"
		}
		out = append(out, raw)
	}
	return out, ""
}

// ClampLimit normalizes a page size: non-positive values fall back to the
// default, oversized values are capped.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ClampOffset floors a page offset at zero.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateUserAgent trims and truncates a user agent to storage limits.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}
