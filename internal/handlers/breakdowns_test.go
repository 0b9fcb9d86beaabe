package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBreakdown(t *testing.T, resp *http.Response) ([]BreakdownItem, PaginationMeta) {
	t.Helper()
	var paginatedResp PaginatedResponse
	decodeJSON(t, resp, &paginatedResp)

	itemsJSON, err := json.Marshal(paginatedResp.Data)
	require.NoError(t, err)
	var items []BreakdownItem
	require.NoError(t, json.Unmarshal(itemsJSON, &items))
	return items, paginatedResp.Pagination
}

func TestHandleDistribution_Location(t *testing.T) {
	app := setupTestApp(t, &stubLoader{snap: fixtureSnapshot(t)}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/distribution/location", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	items, meta := decodeBreakdown(t, resp)
	require.Len(t, items, 3)
	assert.Equal(t, "Dubai", items[0].Name)
	assert.InDelta(t, 33.33, items[0].Percentage, 0.01)
	assert.Equal(t, int64(3), meta.Total)
}

func TestHandleDistribution_CountryCarriesISOCodes(t *testing.T) {
	app := setupTestApp(t, &stubLoader{snap: fixtureSnapshot(t)}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/distribution/country", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	items, _ := decodeBreakdown(t, resp)
	require.Len(t, items, 2)
	assert.Equal(t, "UAE", items[0].Name)
	assert.Equal(t, 2, items[0].Count)
	assert.Equal(t, "AE", items[0].Code)
	assert.Equal(t, "Poland", items[1].Name)
	assert.Equal(t, "PL", items[1].Code)
}

func TestHandleDistribution_Paginated(t *testing.T) {
	app := setupTestApp(t, &stubLoader{snap: fixtureSnapshot(t)}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/distribution/domain?per=1&page=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	items, meta := decodeBreakdown(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "globex.com", items[0].Name)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)
}

func TestHandleDistribution_UnknownDimension(t *testing.T) {
	app := setupTestApp(t, &stubLoader{snap: fixtureSnapshot(t)}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/distribution/planet", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
