package handlers

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/httpx"
	"github.com/peekr/outreach/internal/middleware"
	"github.com/peekr/outreach/internal/report"
)

// PageTitle is shown in the header and the browser tab.
const PageTitle = "Peekr Client Outreach Agent"

var palette = []string{"#60a5fa", "#34d399", "#fbbf24", "#f87171", "#a78bfa", "#fb7185"}

// Card is one headline metric.
type Card struct {
	Label string
	Value int
}

// Slice is one pie segment.
type Slice struct {
	Name    string
	Count   int
	Percent float64
	Color   string
}

// Pie is drawn with a CSS conic-gradient.
type Pie struct {
	Gradient template.CSS
	Slices   []Slice
}

// Bar is one horizontal bar scaled against the largest bar.
type Bar struct {
	Name  string
	Count int
	Style template.CSS
}

// PageData is bound to the dashboard template.
type PageData struct {
	Title     string
	Version   string
	View      *dashboard.View
	Cards     []Card
	Locations Pie
	Category  []Bar
	Email     []Bar
	Flow      []Bar

	LeadColumns     []string
	LeadRows        [][]string
	CategoryColumns []string
	CategoryRows    [][]string

	RefreshGuarded bool
	TokenHeader    string
}

// ErrorData is bound to the error template.
type ErrorData struct {
	Title   string
	Version string
	Status  int
	Message string
}

// HandleDashboard renders the dashboard UI. Failures render the error
// page with no partial data.
func (h *Handlers) HandleDashboard(c fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		status := httpx.StatusForError(err)
		return c.Status(status).Render("error", ErrorData{
			Title:   PageTitle,
			Version: h.version,
			Status:  status,
			Message: err.Error(),
		})
	}

	data := NewPageData(view, h.version)
	data.RefreshGuarded = h.refreshGuarded

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Render("dashboard", data)
}

// NewPageData turns a view into template-ready series.
func NewPageData(view *dashboard.View, version string) PageData {
	s := view.Summary
	return PageData{
		Title:   PageTitle,
		Version: version,
		View:    view,
		Cards: []Card{
			{"Total Leads", s.Cards.TotalLeads},
			{"Valid Emails", s.Cards.ValidEmails},
			{"Unique Domains", s.Cards.UniqueDomains},
			{"Categories", s.Cards.Categories},
		},
		Locations: pieChart(s.Locations),
		Category:  barChart(s.Categories),
		Email: barChart(report.Distribution{
			{Name: "Has Email", Count: s.Email.HasEmail},
			{Name: "No Email", Count: s.Email.NoEmail},
		}),
		Flow: barChart(report.Distribution{
			{Name: "Emails Sent", Count: s.Flow.Sent},
			{Name: "Answered", Count: s.Flow.Answered},
			{Name: "Follow-ups Sent", Count: s.Flow.FollowUps},
		}),
		LeadColumns:     view.Leads.Columns(),
		LeadRows:        view.Leads.Rows(),
		CategoryColumns: view.Categories.Columns(),
		CategoryRows:    view.Categories.Rows(),
		TokenHeader:     middleware.TokenHeader,
	}
}

func pieChart(dist report.Distribution) Pie {
	shares := dist.Percentages()
	pie := Pie{Slices: make([]Slice, len(dist))}

	var stops []string
	start := 0.0
	for i, b := range dist {
		color := palette[i%len(palette)]
		end := start + shares[i]
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", color, start, end))
		pie.Slices[i] = Slice{Name: label(b.Name), Count: b.Count, Percent: shares[i], Color: color}
		start = end
	}

	if len(stops) == 0 {
		pie.Gradient = template.CSS("background: #334155")
	} else {
		pie.Gradient = template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
	}
	return pie
}

func barChart(dist report.Distribution) []Bar {
	largest := dist.Max()
	bars := make([]Bar, len(dist))
	for i, b := range dist {
		width := 0.0
		if largest > 0 {
			width = float64(b.Count) / float64(largest) * 100
		}
		bars[i] = Bar{
			Name:  label(b.Name),
			Count: b.Count,
			Style: template.CSS(fmt.Sprintf("width: %.1f%%; background: %s", width, palette[i%len(palette)])),
		}
	}
	return bars
}

// label gives blank cells a visible name.
func label(name string) string {
	if name == "" {
		return "(blank)"
	}
	return name
}
