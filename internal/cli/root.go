package cli

import (
	"context"
	"io/fs"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/peekr/outreach/internal/config"
)

var Version string

// Views holds the dashboard templates passed from main.
var Views fs.FS

var (
	flagPort        string
	flagSpreadsheet string
	flagSecretsFile string
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Client outreach dashboard for Peekr",
	Long: `Outreach - the Peekr client outreach agent.

Reads the "Incoming Leads" and "Categories" worksheets of the outreach
spreadsheet and serves a dashboard with lead counts, location and
category breakdowns, email availability and the outreach funnel.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Default to serve command if no subcommand provided
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServe(cmd.Context())
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string, views fs.FS) error {
	Version = version
	Views = views
	RootCmd.Version = version

	return RootCmd.ExecuteContext(context.Background())
}

func loadConfig() (*config.Config, error) {
	return config.LoadWithOverrides(config.Overrides{
		Port:          flagPort,
		SpreadsheetID: flagSpreadsheet,
		SecretsFile:   flagSecretsFile,
	})
}

func handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "outreach",
	})
}

// handleUp is the container health check. It reports 503 until the sheet
// data can be served.
func handleUp(probe func(ctx context.Context) error) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()

		if err := probe(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("sheet data unavailable")
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

func handleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "HTTP port (overrides PORT and config file)")
	RootCmd.PersistentFlags().StringVar(&flagSpreadsheet, "spreadsheet", "", "Spreadsheet ID or docs.google.com URL")
	RootCmd.PersistentFlags().StringVar(&flagSecretsFile, "secrets-file", "", "Path to the secrets file holding [gcp_service_account]")

	// Add subcommands; report, export, doctor and healthcheck register
	// themselves in their own files.
	RootCmd.AddCommand(serveCmd)

	setupSelfUpgrade()

	// Set version output
	RootCmd.Version = Version
}
