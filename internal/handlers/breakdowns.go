package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/httpx"
	"github.com/peekr/outreach/internal/report"
)

// HandleDistribution returns the paginated breakdown for :dimension
// (location, country, category, domain or status).
func (h *Handlers) HandleDistribution(c fiber.Ctx) error {
	dimension := c.Params("dimension")
	pagination := ParsePaginationParamsWithValidation(c, "breakdown")

	view, err := h.buildView(c)
	if err != nil {
		return httpx.FailWith(c, err)
	}

	dist, err := view.Distribution(dimension)
	if errors.Is(err, dashboard.ErrUnknownDimension) {
		return httpx.Error(c, fiber.StatusBadRequest, "Unknown dimension "+dimension)
	}
	if err != nil {
		return httpx.FailWith(c, err)
	}

	items := breakdownItems(dist)
	if dimension == "country" {
		decorateCountries(items)
	}
	sortBreakdown(items, pagination)

	from, to := pageBounds(pagination, len(items))
	return c.JSON(NewPaginatedResponse(items[from:to], pagination, int64(len(items))))
}

func breakdownItems(dist report.Distribution) []BreakdownItem {
	shares := dist.Percentages()
	items := make([]BreakdownItem, len(dist))
	for i, b := range dist {
		items[i] = BreakdownItem{Name: b.Name, Count: b.Count, Percentage: shares[i]}
	}
	return items
}
