package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/export"
	"github.com/peekr/outreach/internal/httpx"
)

// RefreshMessage is shown after a successful manual refresh.
const RefreshMessage = "Data refreshed successfully!"

// HandleRefresh clears the sheet cache and fetches both sheets again.
func (h *Handlers) HandleRefresh(c fiber.Ctx) error {
	snap, err := h.svc.Refresh(c.Context())
	if err != nil {
		return httpx.FailWith(c, err)
	}

	return c.JSON(RefreshResponse{
		Message:    RefreshMessage,
		Generation: snap.Generation.String(),
		FetchedAt:  snap.FetchedAt,
	})
}

// HandleExport streams the filtered view as an xlsx workbook.
func (h *Handlers) HandleExport(c fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return httpx.FailWith(c, err)
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view); err != nil {
		return httpx.FailWith(c, err)
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="outreach-%s.xlsx"`, view.FetchedAt.UTC().Format("20060102-150405")))
	return c.Send(buf.Bytes())
}
