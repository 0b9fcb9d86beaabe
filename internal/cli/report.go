package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/report"
)

var (
	reportFormat  string
	reportCountry string
	reportDomain  string
)

var reportFormats = []string{"table", "json", "csv", "yaml"}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the outreach summary",
	Long: `Fetch both worksheets and print the same figures the dashboard shows:
the four headline counts, email availability, the outreach funnel and the
location, country and category distributions.

Example:
  outreach report
  outreach report --country UAE --format json
  outreach report --domain acme.com --format csv > acme.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(reportFormat))
		if !slices.Contains(reportFormats, format) {
			return fmt.Errorf("unsupported format %q (use %s)", reportFormat, strings.Join(reportFormats, ", "))
		}

		view, err := buildView(cmd.Context(), dashboard.Selection{Country: reportCountry, Domain: reportDomain})
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), view, format)
	},
}

// buildView runs one load, filter and aggregate pass outside the server.
func buildView(ctx context.Context, sel dashboard.Selection) (*dashboard.View, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.FiltersEnabled && !sel.IsAll() {
		logging.L().Warn("filters are disabled; ignoring selection",
			zap.String("country", sel.Country),
			zap.String("domain", sel.Domain),
		)
	}

	loader, err := openLoader(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize sheet loader: %w", err)
	}
	return dashboard.NewService(loader, cfg.FiltersEnabled, nil).Build(ctx, sel)
}

// reportDocument is the machine-readable report.
type reportDocument struct {
	Generation string              `json:"generation" yaml:"generation"`
	FetchedAt  time.Time           `json:"fetched_at" yaml:"fetched_at"`
	Selection  dashboard.Selection `json:"selection" yaml:"selection"`
	Summary    report.Summary      `json:"summary" yaml:"summary"`
}

func newReportDocument(view *dashboard.View) reportDocument {
	return reportDocument{
		Generation: view.Generation,
		FetchedAt:  view.FetchedAt.UTC(),
		Selection:  view.Selection,
		Summary:    view.Summary,
	}
}

func writeReport(w io.Writer, view *dashboard.View, format string) error {
	switch format {
	case "json":
		return outputReportJSON(w, view)
	case "yaml":
		return outputReportYAML(w, view)
	case "csv":
		return outputReportCSV(w, view)
	default:
		return outputReportTable(w, view)
	}
}

func outputReportJSON(w io.Writer, view *dashboard.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReportDocument(view))
}

func outputReportYAML(w io.Writer, view *dashboard.View) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newReportDocument(view)); err != nil {
		return err
	}
	return enc.Close()
}

// outputReportCSV writes one section,name,value row per figure.
func outputReportCSV(w io.Writer, view *dashboard.View) error {
	s := view.Summary
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "name", "value"},
		{"cards", "total_leads", strconv.Itoa(s.Cards.TotalLeads)},
		{"cards", "valid_emails", strconv.Itoa(s.Cards.ValidEmails)},
		{"cards", "unique_domains", strconv.Itoa(s.Cards.UniqueDomains)},
		{"cards", "categories", strconv.Itoa(s.Cards.Categories)},
		{"email", "has_email", strconv.Itoa(s.Email.HasEmail)},
		{"email", "no_email", strconv.Itoa(s.Email.NoEmail)},
		{"flow", "sent", strconv.Itoa(s.Flow.Sent)},
		{"flow", "answered", strconv.Itoa(s.Flow.Answered)},
		{"flow", "follow_ups", strconv.Itoa(s.Flow.FollowUps)},
	}
	rows = appendDistributionRows(rows, "location", s.Locations)
	rows = appendDistributionRows(rows, "country", s.Countries)
	rows = appendDistributionRows(rows, "category", s.Categories)

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func appendDistributionRows(rows [][]string, section string, dist report.Distribution) [][]string {
	for _, b := range dist {
		rows = append(rows, []string{section, b.Name, strconv.Itoa(b.Count)})
	}
	return rows
}

func outputReportTable(w io.Writer, view *dashboard.View) error {
	s := view.Summary

	fmt.Fprintf(w, "Outreach Summary (generation %s, fetched %s)\n",
		view.Generation, view.FetchedAt.UTC().Format("2006-01-02 15:04 MST"))
	if view.FiltersEnabled {
		fmt.Fprintf(w, "Filters: country=%s domain=%s\n", view.Selection.Country, view.Selection.Domain)
	}
	fmt.Fprintln(w)

	metrics := tablewriter.NewWriter(w)
	metrics.SetHeader([]string{"Metric", "Value"})
	metrics.AppendBulk([][]string{
		{"Total Leads", strconv.Itoa(s.Cards.TotalLeads)},
		{"Valid Emails", strconv.Itoa(s.Cards.ValidEmails)},
		{"Unique Domains", strconv.Itoa(s.Cards.UniqueDomains)},
		{"Categories", strconv.Itoa(s.Cards.Categories)},
		{"Has Email", strconv.Itoa(s.Email.HasEmail)},
		{"No Email", strconv.Itoa(s.Email.NoEmail)},
		{"Emails Sent", strconv.Itoa(s.Flow.Sent)},
		{"Answered", strconv.Itoa(s.Flow.Answered)},
		{"Follow Ups", strconv.Itoa(s.Flow.FollowUps)},
	})
	metrics.Render()

	for _, section := range []struct {
		title string
		dist  report.Distribution
	}{
		{"Locations", s.Locations},
		{"Countries", s.Countries},
		{"Categories", s.Categories},
	} {
		fmt.Fprintf(w, "\n%s\n", section.title)
		outputDistributionTable(w, section.dist)
	}
	return nil
}

func outputDistributionTable(w io.Writer, dist report.Distribution) {
	if len(dist) == 0 {
		fmt.Fprintln(w, "  (no data)")
		return
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Name", "Count", "Share"})
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	shares := dist.Percentages()
	for i, b := range dist {
		name := b.Name
		if name == "" {
			name = "(blank)"
		}
		tbl.Append([]string{name, strconv.Itoa(b.Count), fmt.Sprintf("%.1f%%", shares[i])})
	}
	tbl.Render()
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, csv or yaml")
	reportCmd.Flags().StringVar(&reportCountry, "country", dashboard.All, "Only count leads in this country")
	reportCmd.Flags().StringVar(&reportDomain, "domain", dashboard.All, "Only count leads with this domain")
	RootCmd.AddCommand(reportCmd)
}
