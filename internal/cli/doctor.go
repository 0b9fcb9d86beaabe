package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/peekr/outreach/internal/config"
	"github.com/peekr/outreach/internal/country"
	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/report"
	"github.com/peekr/outreach/internal/sheets"
	"github.com/peekr/outreach/internal/table"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the outreach setup",
	Long: `Run health checks on the outreach setup.

Checks performed:
  - Configuration loads
  - Secrets file permissions
  - Service account credentials resolve
  - Both worksheets can be fetched
  - Lead columns used by the dashboard exist
  - Category columns used by the charts exist

Example:
  outreach doctor
  outreach doctor --json`,
	RunE: runDoctor,
}

type CheckResult struct {
	Name       string `json:"name"`
	Pass       bool   `json:"pass"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

var requiredLeadColumns = []string{
	report.EmailColumn,
	report.ValidEmailColumn,
	report.DomainColumn,
	report.CategoryColumn,
	country.LocationColumn,
	report.StatusColumn,
	report.ReplyColumn,
	report.FollowUpColumn,
}

var requiredCategoryColumns = []string{
	country.LocationColumn,
}

var doctorExit = os.Exit

func checkConfiguration(cfg *config.Config) CheckResult {
	details := fmt.Sprintf("spreadsheet %s, sheets %q and %q", cfg.SpreadsheetID, cfg.LeadsSheet, cfg.CategoriesSheet)
	if _, err := cfg.CredentialSources(); err != nil {
		return CheckResult{
			Name:       "Configuration",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Set CREDENTIAL_PRECEDENCE to a list of env and secrets, e.g. \"secrets,env\"",
		}
	}
	return CheckResult{Name: "Configuration", Pass: true, Details: details}
}

func checkSecretsFile(path string) CheckResult {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return CheckResult{Name: "Secrets File Permissions", Pass: true, Details: "not present"}
	}
	if err != nil {
		return CheckResult{Name: "Secrets File Permissions", Pass: false, Error: err.Error()}
	}

	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return CheckResult{
			Name:       "Secrets File Permissions",
			Pass:       false,
			Error:      fmt.Sprintf("%s is readable by other users (%#o)", path, perm),
			Suggestion: fmt.Sprintf("Run: chmod 600 %s", path),
		}
	}
	return CheckResult{Name: "Secrets File Permissions", Pass: true, Details: path}
}

func checkCredentials(cfg *config.Config) (credentials.ServiceAccount, CheckResult) {
	sources, err := cfg.CredentialSources()
	if err != nil {
		return credentials.ServiceAccount{}, CheckResult{Name: "Credentials", Pass: false, Error: err.Error()}
	}

	account, source, err := credentials.Resolve(sources)
	if err != nil {
		return credentials.ServiceAccount{}, CheckResult{
			Name:  "Credentials",
			Pass:  false,
			Error: err.Error(),
			Suggestion: fmt.Sprintf("Set %s and %s, or add a [%s] table to %s",
				credentials.EnvProjectID, credentials.EnvPrivateKey, credentials.SecretsKey, cfg.SecretsFile),
		}
	}

	if account.ClientEmail == "" {
		return account, CheckResult{
			Name:       "Credentials",
			Pass:       false,
			Error:      "client_email is empty",
			Suggestion: fmt.Sprintf("Set %s to the service account address", credentials.EnvClientEmail),
		}
	}
	return account, CheckResult{Name: "Credentials", Pass: true, Details: source.Describe()}
}

func checkSheetFetch(ctx context.Context, loader dashboard.SnapshotLoader, clientEmail string) (*sheets.Snapshot, CheckResult) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	snap, err := loader.Load(ctx)
	if err != nil {
		result := CheckResult{Name: "Sheet Access", Pass: false, Error: err.Error()}

		var fetchErr *sheets.RemoteFetchError
		switch {
		case errors.As(err, &fetchErr) && (fetchErr.StatusCode == http.StatusForbidden || fetchErr.StatusCode == http.StatusNotFound):
			result.Suggestion = fmt.Sprintf("Share the spreadsheet with %s and check the sheet names", clientEmail)
		case errors.Is(err, context.DeadlineExceeded):
			result.Suggestion = "Increase FETCH_TIMEOUT or check network access to sheets.googleapis.com"
		default:
			result.Suggestion = "Verify SPREADSHEET_ID and the service account key"
		}
		return nil, result
	}

	return snap, CheckResult{
		Name:    "Sheet Access",
		Pass:    true,
		Details: fmt.Sprintf("%d leads, %d category rows", snap.Leads.Len(), snap.Categories.Len()),
	}
}

func checkColumns(name, sheet string, t *table.Table, required []string) CheckResult {
	var missing []string
	for _, column := range required {
		if !t.Has(column) {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Name:       name,
			Pass:       false,
			Error:      fmt.Sprintf("Missing columns in %q: %s", sheet, strings.Join(missing, ", ")),
			Suggestion: "Figures that depend on missing columns are reported as zero",
		}
	}

	return CheckResult{
		Name:    name,
		Pass:    true,
		Details: fmt.Sprintf("%d/%d columns found", len(required), len(required)),
	}
}

func collectDoctorResults(ctx context.Context) []CheckResult {
	cfg, err := loadConfig()
	if err != nil {
		return []CheckResult{{
			Name:       "Configuration",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Check outreach.toml, .env and the environment",
		}}
	}

	results := []CheckResult{
		checkConfiguration(cfg),
		checkSecretsFile(cfg.SecretsFile),
	}

	account, credResult := checkCredentials(cfg)
	results = append(results, credResult)
	if !credResult.Pass {
		return results
	}

	loader, err := openLoader(ctx, cfg)
	if err != nil {
		return append(results, CheckResult{
			Name:       "Sheet Access",
			Pass:       false,
			Error:      err.Error(),
			Suggestion: "Check that the private key is a valid PEM block",
		})
	}

	snap, fetchResult := checkSheetFetch(ctx, loader, account.ClientEmail)
	results = append(results, fetchResult)
	if snap == nil {
		return results
	}

	opts := loader.Options()
	results = append(results,
		checkColumns("Lead Columns", opts.LeadsSheet, snap.Leads, requiredLeadColumns),
		checkColumns("Category Columns", opts.CategoriesSheet, snap.Categories, requiredCategoryColumns),
	)
	return results
}

func runDoctor(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := collectDoctorResults(ctx)

	// Output results
	if jsonOutput {
		outputDoctorJSON(results)
	} else {
		color.NoColor = !colorEnabled(os.Stdout)
		outputDoctorHuman(results)
	}

	// Determine exit code
	for _, r := range results {
		if !r.Pass {
			doctorExit(1)
			break
		}
	}
	return nil
}

// colorEnabled reports whether f is a terminal and NO_COLOR is unset.
func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func outputDoctorHuman(results []CheckResult) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	hint := color.New(color.FgYellow).SprintFunc()

	fmt.Println("\nOutreach Health Check")

	for _, r := range results {
		icon := pass("✓")
		if !r.Pass {
			icon = fail("✗")
		}

		fmt.Printf("%s %s", icon, r.Name)
		if r.Details != "" {
			fmt.Printf(" (%s)", r.Details)
		}
		fmt.Println()

		if !r.Pass {
			if r.Error != "" {
				fmt.Printf("  Error: %s\n", r.Error)
			}
			if r.Suggestion != "" {
				fmt.Printf("  %s %s\n", hint("Hint:"), r.Suggestion)
			}
		}
	}

	// Summary
	passed := 0
	for _, r := range results {
		if r.Pass {
			passed++
		}
	}

	fmt.Printf("\n%d/%d checks passed\n\n", passed, len(results))
}

func outputDoctorJSON(results []CheckResult) {
	data, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(data))
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output results as JSON")
	RootCmd.AddCommand(doctorCmd)
}
