package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/middleware"
)

// Register mounts the dashboard page and API. A non-empty refreshToken
// guards the refresh route and makes the page ask for the token.
func (h *Handlers) Register(router fiber.Router, refreshToken string) {
	h.refreshGuarded = refreshToken != ""

	router.Get("/", h.HandleDashboard)
	router.Get("/dashboard", h.HandleDashboard)

	api := router.Group("/api")
	api.Get("/summary", h.HandleSummary)
	api.Get("/distribution/:dimension", h.HandleDistribution)
	api.Get("/leads", h.HandleLeads)
	api.Get("/categories", h.HandleCategories)
	api.Get("/filters", h.HandleFilters)
	api.Get("/status", h.HandleStatus)
	api.Get("/export.xlsx", h.HandleExport)
	api.Post("/refresh", middleware.RequireToken(refreshToken), h.HandleRefresh)
}
