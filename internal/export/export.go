// Package export writes a dashboard view as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/report"
	"github.com/peekr/outreach/internal/table"
)

// Sheet names in the workbook.
const (
	SummarySheet    = "Summary"
	LeadsSheet      = "Leads"
	CategoriesSheet = "Categories"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Write renders view into w as an xlsx workbook with a summary sheet and
// the filtered leads and categories tables.
func Write(w io.Writer, view *dashboard.View) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, view); err != nil {
		return err
	}
	if err := writeTable(f, LeadsSheet, view.Leads); err != nil {
		return err
	}
	if err := writeTable(f, CategoriesSheet, view.Categories); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, view *dashboard.View) error {
	cards := view.Summary.Cards
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Generation", view.Generation},
		{"Fetched at", view.FetchedAt.UTC().Format("2006-01-02 15:04:05 MST")},
		{"Country filter", view.Selection.Country},
		{"Domain filter", view.Selection.Domain},
		{"Total leads", cards.TotalLeads},
		{"Valid emails", cards.ValidEmails},
		{"Unique domains", cards.UniqueDomains},
		{"Categories", cards.Categories},
		{"Has email", view.Summary.Email.HasEmail},
		{"No email", view.Summary.Email.NoEmail},
		{"Emails sent", view.Summary.Flow.Sent},
		{"Answered", view.Summary.Flow.Answered},
		{"Follow ups", view.Summary.Flow.FollowUps},
		{},
	}
	rows = appendDistribution(rows, "Location", view.Summary.Locations)
	rows = appendDistribution(rows, "Country", view.Summary.Countries)
	rows = appendDistribution(rows, "Category", view.Summary.Categories)

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func appendDistribution(rows [][]interface{}, label string, dist report.Distribution) [][]interface{} {
	rows = append(rows, []interface{}{label, "Count"})
	for _, b := range dist {
		rows = append(rows, []interface{}{b.Name, b.Count})
	}
	return append(rows, []interface{}{})
}

func writeTable(f *excelize.File, sheet string, t *table.Table) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if t == nil {
		return nil
	}

	if err := setRow(f, sheet, 1, toCells(t.Columns())); err != nil {
		return err
	}
	for i := range t.Len() {
		if err := setRow(f, sheet, i+2, toCells(t.Row(i))); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	if len(cells) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
