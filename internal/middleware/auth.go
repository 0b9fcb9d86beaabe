package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/logging"
)

// TokenHeader is accepted as an alternative to a bearer token.
const TokenHeader = "X-Refresh-Token"

// RequireToken guards cache-mutating endpoints. An empty expected token
// leaves the route open.
func RequireToken(expected string) fiber.Handler {
	if expected == "" {
		return func(c fiber.Ctx) error {
			return c.Next()
		}
	}
	want := hashToken(expected)

	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - no refresh token provided",
			})
		}

		if subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(want)) != 1 {
			logging.L().Warn("rejected refresh token", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized - invalid refresh token",
			})
		}

		return c.Next()
	}
}

// extractToken supports: Authorization: Bearer <token> or X-Refresh-Token: <token>
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.Get(TokenHeader))
}

// hashToken hashes before comparing so the comparison length is fixed.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
