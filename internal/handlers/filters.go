package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/httpx"
)

// HandleFilters returns the selector options and the active selection.
func (h *Handlers) HandleFilters(c fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return httpx.FailWith(c, err)
	}

	return c.JSON(fiber.Map{
		"enabled":   view.FiltersEnabled,
		"selection": view.Selection,
		"options":   view.Options,
	})
}
