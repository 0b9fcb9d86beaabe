package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/export"
	"github.com/peekr/outreach/internal/logging"
)

var (
	exportCountry string
	exportDomain  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write the dashboard data to an Excel workbook",
	Long: `Write a workbook with a Summary sheet (headline counts and the
location, country and category distributions) followed by the filtered
leads and categories tables.

Example:
  outreach export outreach.xlsx
  outreach export --country Poland poland.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
			path += ".xlsx"
		}

		view, err := buildView(cmd.Context(), dashboard.Selection{Country: exportCountry, Domain: exportDomain})
		if err != nil {
			return err
		}

		if err := writeWorkbook(path, view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d leads, %d category rows)\n",
			path, view.Leads.Len(), view.Categories.Len())
		return nil
	},
}

// writeWorkbook renders the workbook in memory so a failure never leaves a
// truncated file behind.
func writeWorkbook(path string, view *dashboard.View) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, view); err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logging.L().Debug("workbook written", zap.String("path", path), zap.Int("bytes", buf.Len()))
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportCountry, "country", dashboard.All, "Only export leads in this country")
	exportCmd.Flags().StringVar(&exportDomain, "domain", dashboard.All, "Only export leads with this domain")
	RootCmd.AddCommand(exportCmd)
}
