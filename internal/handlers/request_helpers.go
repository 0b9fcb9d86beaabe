package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/httpx"
	"github.com/peekr/outreach/internal/sheets"
)

// Dashboard is the use case the handlers drive.
type Dashboard interface {
	Build(ctx context.Context, sel dashboard.Selection) (*dashboard.View, error)
	Refresh(ctx context.Context) (*sheets.Snapshot, error)
	Stats() sheets.Stats
	FiltersEnabled() bool
}

// Handlers serves the dashboard page and its JSON API.
type Handlers struct {
	svc            Dashboard
	version        string
	refreshGuarded bool
}

// New creates handlers over svc.
func New(svc Dashboard, version string) *Handlers {
	return &Handlers{svc: svc, version: version}
}

// selectionFromQuery reads ?country= and ?domain=, defaulting to All.
func selectionFromQuery(c fiber.Ctx) dashboard.Selection {
	return dashboard.Selection{
		Country: httpx.QueryString(c, "country", dashboard.All),
		Domain:  httpx.QueryString(c, "domain", dashboard.All),
	}
}

// buildView runs one render pass for the request's selection.
func (h *Handlers) buildView(c fiber.Ctx) (*dashboard.View, error) {
	return h.svc.Build(c.Context(), selectionFromQuery(c))
}
