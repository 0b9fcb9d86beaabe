package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/sheets"
)

func TestStatusForError(t *testing.T) {
	credErr := &credentials.CredentialError{Source: "environment", Reason: "no credentials found"}
	fetchErr := &sheets.RemoteFetchError{Sheet: "Categories", StatusCode: 403, Err: errors.New("forbidden")}
	timeout := &sheets.RemoteFetchError{Sheet: "Categories", Err: context.DeadlineExceeded}

	assert.Equal(t, fiber.StatusServiceUnavailable, StatusForError(credErr))
	assert.Equal(t, fiber.StatusServiceUnavailable, StatusForError(fmt.Errorf("startup: %w", credErr)))
	assert.Equal(t, fiber.StatusBadGateway, StatusForError(fetchErr))
	assert.Equal(t, fiber.StatusGatewayTimeout, StatusForError(timeout))
	assert.Equal(t, fiber.StatusInternalServerError, StatusForError(errors.New("boom")))
}

func TestFailWithWritesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return FailWith(c, &sheets.RemoteFetchError{Sheet: "Incoming Leads", Err: errors.New("quota")})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"error"`)
	assert.Contains(t, string(body), "Incoming Leads")
}

func TestQueryString(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(QueryString(c, "country", "All") + "|" + QueryString(c, "domain", "All"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?country=%20UAE%20&domain=", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "UAE|All", string(body))
}
