package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/sheets"
)

func TestHandleSummary_Success(t *testing.T) {
	loader := &stubLoader{snap: fixtureSnapshot(t)}
	app := setupTestApp(t, loader, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SummaryResponse
	decodeJSON(t, resp, &body)

	assert.Equal(t, loader.snap.Generation.String(), body.Generation)
	assert.Equal(t, dashboard.Selection{Country: dashboard.All, Domain: dashboard.All}, body.Selection)
	assert.Equal(t, 4, body.Summary.Cards.TotalLeads)
	assert.Equal(t, 2, body.Summary.Cards.ValidEmails)
	assert.Equal(t, 3, body.Summary.Cards.UniqueDomains)
	assert.Equal(t, 3, body.Summary.Cards.Categories)
	assert.Equal(t, 3, body.Summary.Email.HasEmail)
	assert.Equal(t, 1, body.Summary.Email.NoEmail)
	assert.Equal(t, 2, body.Summary.Flow.Sent)
	assert.Equal(t, 1, body.Summary.Flow.Answered)
	assert.Equal(t, 1, body.Summary.Flow.FollowUps)
}

func TestHandleSummary_Filtered(t *testing.T) {
	app := setupTestApp(t, &stubLoader{snap: fixtureSnapshot(t)}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary?country=UAE&domain=acme.com", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SummaryResponse
	decodeJSON(t, resp, &body)

	assert.Equal(t, "UAE", body.Selection.Country)
	assert.Equal(t, 1, body.Summary.Cards.TotalLeads)
	// Categories carry no domain column, so only the country predicate applies.
	assert.Equal(t, 2, body.Summary.Locations.Total())
}

func TestHandleSummary_CredentialErrorIs503(t *testing.T) {
	loader := &stubLoader{err: &credentials.CredentialError{Source: "environment variables", Reason: "no credentials found"}}
	app := setupTestApp(t, loader, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Contains(t, body["error"], "no credentials found")
}

func TestHandleSummary_RemoteFetchErrorIs502(t *testing.T) {
	loader := &stubLoader{err: &sheets.RemoteFetchError{Sheet: "Categories", StatusCode: 403, Err: errors.New("permission denied")}}
	app := setupTestApp(t, loader, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleStatus(t *testing.T) {
	loader := &stubLoader{snap: fixtureSnapshot(t)}
	app := setupTestApp(t, loader, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatusResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "test", body.Version)
	assert.True(t, body.FiltersEnabled)
	assert.True(t, body.Loader.Cached)
	assert.Equal(t, loader.snap.Generation.String(), body.Loader.Generation)
}
