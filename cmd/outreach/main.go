package main

import (
	"embed"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/cli"
	"github.com/peekr/outreach/internal/logging"
)

//go:embed VERSION
var versionFile string

//go:embed views/*.html
var viewsFS embed.FS

var executeCLI = cli.Execute

func run() error {
	version := strings.TrimSpace(versionFile)

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return err
	}
	return executeCLI(version, views)
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("outreach execution failed", zap.Error(err))
	}
}
