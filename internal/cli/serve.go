package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/config"
	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/dashboard"
	"github.com/peekr/outreach/internal/handlers"
	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/middleware"
	"github.com/peekr/outreach/internal/realtime"
	"github.com/peekr/outreach/internal/sheets"
)

const appName = "Outreach - Peekr client outreach agent"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the outreach dashboard server",
	Long: `Start the outreach dashboard server.

Credentials are resolved once at startup; the server refuses to start
without them.

Environment variables:
  PORT                   Server port (default: 3000)
  SPREADSHEET_ID         Spreadsheet ID or URL
  GCP_PROJECT_ID, GCP_PRIVATE_KEY, GCP_CLIENT_EMAIL, ...
                         Service account credentials
  SECRETS_FILE           Secrets file with a [gcp_service_account] table
  CACHE_TTL              Cache lifetime, 0 keeps data until refreshed
  REFRESH_INTERVAL       Background refresh period, 0 disables it
  FILTERS_ENABLED        Show the country/domain selectors (default: true)
  REFRESH_TOKEN          Require this token for POST /api/refresh

Example:
  GCP_PROJECT_ID=peekr GCP_PRIVATE_KEY="$(cat key.pem)" outreach serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// openLoader resolves service-account credentials and builds the sheet
// loader. Tests replace it to read from an in-memory source.
var openLoader = func(ctx context.Context, cfg *config.Config) (*sheets.Loader, error) {
	sources, err := cfg.CredentialSources()
	if err != nil {
		return nil, err
	}

	account, source, err := credentials.Resolve(sources)
	if err != nil {
		return nil, err
	}
	logging.L().Info("credentials resolved",
		zap.String("source", source.Describe()),
		zap.String("client_email", account.ClientEmail),
	)

	client, err := credentials.Client(ctx, account)
	if err != nil {
		return nil, err
	}

	src, err := sheets.NewGoogleSource(ctx, client)
	if err != nil {
		return nil, err
	}
	return sheets.NewLoader(src, cfg.SheetOptions()), nil
}

// createListenConfig keeps the server in a single process. The sheet cache
// and the websocket hub are in memory and are not shared between children.
func createListenConfig() fiber.ListenConfig {
	return fiber.ListenConfig{
		EnablePrefork:         false,
		DisableStartupMessage: true,
	}
}

func viewsEngine() (*html.Engine, error) {
	if Views == nil {
		return nil, errors.New("dashboard templates are not embedded")
	}
	return html.NewFileSystem(http.FS(Views), ".html"), nil
}

// runServe runs the dashboard server until SIGINT or SIGTERM.
func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loader, err := openLoader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize sheet loader: %w", err)
	}

	engine, err := viewsEngine()
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	defer hub.Stop()

	svc := dashboard.NewService(loader, cfg.FiltersEnabled, hub)
	app := newServer(cfg, loader, svc, hub, engine)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so the first page view does not wait on the fetch.
	go func() {
		if _, err := loader.Load(ctx); err != nil {
			logging.L().Warn("initial sheet load failed", zap.Error(err))
		}
	}()
	realtime.StartRefresher(ctx, svc, cfg.RefreshInterval)

	go func() {
		<-ctx.Done()
		logging.L().Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.L().Warn("shutdown failed", zap.Error(err))
		}
	}()

	logging.L().Info("outreach starting",
		zap.String("port", cfg.Port),
		zap.String("spreadsheet_id", cfg.SpreadsheetID),
		zap.Bool("filters_enabled", cfg.FiltersEnabled),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
		zap.Bool("refresh_guarded", cfg.RefreshToken != ""),
	)
	return app.Listen(":"+cfg.Port, createListenConfig())
}

// newServer assembles the Fiber app: middleware, operational endpoints,
// the dashboard routes and the refresh websocket.
func newServer(
	cfg *config.Config,
	loader dashboard.SnapshotLoader,
	svc *dashboard.Service,
	hub *realtime.Hub,
	views fiber.Views,
) *fiber.App {
	app := fiber.New(createFiberConfig(appName, views))

	// Middleware
	app.Use(recoverer.New())
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logging.L(),
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/up"
		},
	}))
	app.Use("/api", cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TokenHeader},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// Add version header to all responses
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Outreach-Version", Version)
		return c.Next()
	})

	app.Get("/health", handleHealth)
	app.Get("/up", handleUp(func(ctx context.Context) error {
		_, err := loader.Load(ctx)
		return err
	}))
	app.Get("/api/version", handleVersion)

	handlers.New(svc, Version).Register(app, cfg.RefreshToken)

	app.Get("/ws", realtime.Upgrade, hub.Handler())

	return app
}
