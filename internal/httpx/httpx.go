package httpx

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/sheets"
)

// Error writes a standard error envelope.
func Error(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// StatusForError maps domain errors onto HTTP status codes:
// missing credentials 503, upstream sheet failures 502, timeouts 504.
func StatusForError(err error) int {
	var credErr *credentials.CredentialError
	var fetchErr *sheets.RemoteFetchError
	switch {
	case errors.As(err, &credErr):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.As(err, &fetchErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FailWith logs err and writes it with the mapped status.
func FailWith(c fiber.Ctx, err error) error {
	status := StatusForError(err)
	logging.L().Warn("request failed",
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err))
	return Error(c, status, err.Error())
}

// QueryString fetches a trimmed query string parameter with a default value.
func QueryString(c fiber.Ctx, key, defaultValue string) string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return defaultValue
	}
	return val
}
