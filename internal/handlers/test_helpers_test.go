package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/sheets"
	"github.com/peekr/outreach/internal/table"
)

const viewsDir = "../../cmd/outreach/views"

type stubLoader struct {
	snap      *sheets.Snapshot
	err       error
	refreshes int
}

func (s *stubLoader) Load(ctx context.Context) (*sheets.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *stubLoader) Refresh(ctx context.Context) (*sheets.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.refreshes++
	next := *s.snap
	next.Generation = uuid.New()
	s.snap = &next
	return s.snap, nil
}

func (s *stubLoader) Stats() sheets.Stats {
	return sheets.Stats{Fetches: s.refreshes + 1, Cached: true, Generation: s.snap.Generation.String()}
}

func mustTable(t *testing.T, columns []string, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	return tbl
}

func fixtureSnapshot(t *testing.T) *sheets.Snapshot {
	t.Helper()
	return &sheets.Snapshot{
		Generation: uuid.New(),
		FetchedAt:  time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC),
		Leads: mustTable(t,
			[]string{"Email", "Valid Email", "domain", "Category", "Location", "Status", "Mail reply send", "Follow Up"},
			[][]string{
				{"a@acme.com", "a@acme.com", "acme.com", "Retail", "Dubai", "send", "yes", ""},
				{"b@acme.com", "", "acme.com", "Retail", "Warsaw, Poland", "Send", "", "send"},
				{"c@globex.com", "c@globex.com", "globex.com", "Tech", "Abu Dhabi", "pending", "", ""},
				{"", "", "initech.com", "Food", "Berlin", "", "", ""},
			}),
		Categories: mustTable(t,
			[]string{"Category", "Location"},
			[][]string{
				{"Retail", "Dubai"},
				{"Tech", "Dubai Marina"},
				{"Food", "Krakow, Poland"},
			}),
	}
}

func setupTestApp(t *testing.T, loader *stubLoader, refreshToken string) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		Views: html.New(viewsDir, ".html"),
	})
	h := New(dashboard.NewService(loader, true, nil), "test")
	h.Register(app, refreshToken)
	return app
}

func decodeJSON(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, dst), string(body))
}
