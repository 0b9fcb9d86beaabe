package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if the server is healthy",
	Long:  "Performs an HTTP request to the /up endpoint to verify the server is running and can read the spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := "3000" // Default port
		if cfg, err := loadConfig(); err == nil && cfg.Port != "" {
			port = cfg.Port
		}

		url := fmt.Sprintf("http://localhost:%s/up", port)

		client := &http.Client{
			Timeout: 15 * time.Second,
		}

		if err := probeUp(client, url); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			return err
		}
		return nil
	},
}

func probeUp(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck failed: status %d", resp.StatusCode)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(healthcheckCmd)
}
