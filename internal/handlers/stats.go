package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/httpx"
)

// HandleSummary returns the cards and chart series for the selection.
func (h *Handlers) HandleSummary(c fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return httpx.FailWith(c, err)
	}

	return c.JSON(SummaryResponse{
		Generation:     view.Generation,
		FetchedAt:      view.FetchedAt,
		FiltersEnabled: view.FiltersEnabled,
		Selection:      view.Selection,
		Summary:        view.Summary,
	})
}

// HandleStatus reports loader counters without touching the remote sheet.
func (h *Handlers) HandleStatus(c fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Version:        h.version,
		FiltersEnabled: h.svc.FiltersEnabled(),
		Loader:         h.svc.Stats(),
	})
}
