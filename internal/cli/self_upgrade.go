//go:build !docker

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/config"
	"github.com/peekr/outreach/internal/logging"
)

var (
	selfUpgradeRequested bool
	selfUpgradeCheckOnly bool
	selfUpgradeAutoYes   bool
)

var (
	detectLatestRelease = selfupdate.DetectLatest
	applyRelease        = selfupdate.UpdateTo
	executablePath      = os.Executable
	selfUpgradeExit     = os.Exit
)

type upgradeOutcome int

const (
	upgradeUpToDate upgradeOutcome = iota
	upgradeAvailable
	upgradeDeclined
	upgradeApplied
)

type upgradeRequest struct {
	repo      string
	current   string
	checkOnly bool
	autoYes   bool
	out       io.Writer
	in        io.Reader
}

func setupSelfUpgrade() {
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeRequested, "self-upgrade", false, "Upgrade outreach to the latest release and exit")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeCheckOnly, "self-upgrade-check", false, "Only check whether a newer outreach release is available")
	RootCmd.PersistentFlags().BoolVar(&selfUpgradeAutoYes, "self-upgrade-yes", false, "Skip confirmation prompts when running --self-upgrade")

	existingPreRun := RootCmd.PersistentPreRunE
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRun != nil {
			if err := existingPreRun(cmd, args); err != nil {
				return err
			}
		}

		return handleSelfUpgradeFlags(cmd)
	}
}

func handleSelfUpgradeFlags(cmd *cobra.Command) error {
	if !selfUpgradeRequested && !selfUpgradeCheckOnly {
		return nil
	}

	if _, err := runSelfUpgrade(upgradeRequest{
		repo:      releaseRepoFromConfig(),
		current:   Version,
		checkOnly: selfUpgradeCheckOnly,
		autoYes:   selfUpgradeAutoYes,
		out:       cmd.OutOrStdout(),
		in:        cmd.InOrStdin(),
	}); err != nil {
		return err
	}

	selfUpgradeExit(0)
	return nil
}

// releaseRepoFromConfig falls back to DefaultReleaseRepo when the config
// cannot be read.
func releaseRepoFromConfig() string {
	cfg, err := loadConfig()
	if err != nil || cfg.ReleaseRepo == "" {
		return config.DefaultReleaseRepo
	}
	return cfg.ReleaseRepo
}

// parseReleaseVersion accepts "1.2.3" and "v1.2.3". Development builds
// carry no version and cannot be upgraded.
func parseReleaseVersion(raw string) (semver.Version, error) {
	versionStr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if versionStr == "" {
		return semver.Version{}, errors.New("self-upgrade is only available for release builds")
	}

	current, err := semver.Parse(versionStr)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid current version %q: %w", raw, err)
	}
	return current, nil
}

func runSelfUpgrade(req upgradeRequest) (upgradeOutcome, error) {
	current, err := parseReleaseVersion(req.current)
	if err != nil {
		return upgradeUpToDate, err
	}

	log := logging.With(zap.String("repo", req.repo), zap.String("current", current.String()))
	log.Info("checking for outreach release")

	latest, found, err := detectLatestRelease(req.repo)
	if err != nil {
		return upgradeUpToDate, fmt.Errorf("failed to check %s for updates: %w", req.repo, err)
	}
	if !found || latest == nil {
		return upgradeUpToDate, fmt.Errorf("no releases found in %s", req.repo)
	}

	if !latest.Version.GT(current) {
		_, _ = fmt.Fprintf(req.out, "outreach v%s is up to date\n", current)
		return upgradeUpToDate, nil
	}

	log.Info("newer release available", zap.String("latest", latest.Version.String()), zap.String("asset", latest.AssetURL))
	_, _ = fmt.Fprintf(req.out, "New release found: v%s --> v%s\n", current, latest.Version)
	if req.checkOnly {
		return upgradeAvailable, nil
	}

	exe, err := executablePath()
	if err != nil {
		return upgradeUpToDate, fmt.Errorf("failed to determine executable path: %w", err)
	}

	_, _ = fmt.Fprintf(req.out, "  * Current exe: %q\n", exe)
	_, _ = fmt.Fprintf(req.out, "  * Target OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if latest.AssetURL != "" {
		_, _ = fmt.Fprintf(req.out, "  * Download URL: %s\n", latest.AssetURL)
	}

	if !req.autoYes {
		ok, err := confirmUpgrade(req.in, req.out)
		if err != nil {
			return upgradeUpToDate, err
		}
		if !ok {
			_, _ = fmt.Fprintln(req.out, "Update cancelled.")
			return upgradeDeclined, nil
		}
	}

	if err := applyRelease(latest.AssetURL, exe); err != nil {
		log.Error("self-upgrade failed", zap.Error(err))
		return upgradeUpToDate, fmt.Errorf("self-upgrade failed: %w", err)
	}

	log.Info("outreach upgraded", zap.String("latest", latest.Version.String()), zap.String("exe", exe))
	_, _ = fmt.Fprintf(req.out, "Updated outreach to v%s\n", latest.Version)
	return upgradeApplied, nil
}

func confirmUpgrade(in io.Reader, out io.Writer) (bool, error) {
	_, _ = fmt.Fprint(out, "The new release will replace the current binary. Continue? [Y/n] ")

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(response) == "") {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "" || response == "y" || response == "yes", nil
}
