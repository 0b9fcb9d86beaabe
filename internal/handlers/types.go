package handlers

import (
	"time"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/report"
	"github.com/peekr/outreach/internal/sheets"
)

// BreakdownItem represents a breakdown metric with count
type BreakdownItem struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Code       string  `json:"code,omitempty"`         // ISO 3166-1 alpha-2 for country buckets
	FullName   string  `json:"country_name,omitempty"` // Human-readable country name
}

// SummaryResponse is the JSON form of one dashboard pass.
type SummaryResponse struct {
	Generation     string              `json:"generation"`
	FetchedAt      time.Time           `json:"fetched_at"`
	FiltersEnabled bool                `json:"filters_enabled"`
	Selection      dashboard.Selection `json:"selection"`
	Summary        report.Summary      `json:"summary"`
}

// RowsPage is a window of table rows keyed by column name.
type RowsPage struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// StatusResponse reports cache state.
type StatusResponse struct {
	Version        string       `json:"version"`
	FiltersEnabled bool         `json:"filters_enabled"`
	Loader         sheets.Stats `json:"loader"`
}

// RefreshResponse is returned after a manual refresh.
type RefreshResponse struct {
	Message    string    `json:"message"`
	Generation string    `json:"generation"`
	FetchedAt  time.Time `json:"fetched_at"`
}
