package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/httpx"
	"github.com/peekr/outreach/internal/table"
)

// HandleLeads returns a page of filtered lead rows.
func (h *Handlers) HandleLeads(c fiber.Ctx) error {
	return h.handleRows(c, func(v *dashboard.View) *table.Table { return v.Leads })
}

// HandleCategories returns a page of filtered category rows.
func (h *Handlers) HandleCategories(c fiber.Ctx) error {
	return h.handleRows(c, func(v *dashboard.View) *table.Table { return v.Categories })
}

func (h *Handlers) handleRows(c fiber.Ctx, pick func(*dashboard.View) *table.Table) error {
	pagination := ParsePaginationParams(c)

	view, err := h.buildView(c)
	if err != nil {
		return httpx.FailWith(c, err)
	}

	t := pick(view)
	from, to := pageBounds(pagination, t.Len())
	window := t.Slice(from, to)

	rows := make([]map[string]string, window.Len())
	for i := range window.Len() {
		rows[i] = window.Record(i)
	}

	return c.JSON(NewPaginatedResponse(RowsPage{
		Columns: t.Columns(),
		Rows:    rows,
	}, pagination, int64(t.Len())))
}
