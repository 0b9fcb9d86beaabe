package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/peekr/outreach/internal/credentials"
	"github.com/peekr/outreach/internal/sheets"
)

// DefaultReleaseRepo is the GitHub owner/name that publishes outreach releases.
const DefaultReleaseRepo = "peekr/outreach"

// Config holds application configuration
type Config struct {
	Port                 string
	SpreadsheetID        string
	LeadsSheet           string
	CategoriesSheet      string
	CacheTTL             time.Duration
	FetchTimeout         time.Duration
	RefreshInterval      time.Duration
	FiltersEnabled       bool
	CredentialPrecedence string
	SecretsFile          string
	RefreshToken         string
	ReleaseRepo          string
}

// Overrides are values supplied on the command line. Empty fields are ignored.
type Overrides struct {
	Port          string
	SpreadsheetID string
	SecretsFile   string
}

// Load loads configuration from multiple sources with priority:
// 1. Command flags (see LoadWithOverrides)
// 2. Config file (./outreach.toml or $XDG_CONFIG_HOME/outreach/outreach.toml)
// 3. Environment variables (a .env file in the working directory is loaded first)
// 4. Defaults
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides loads config and applies flag overrides
func LoadWithOverrides(overrides Overrides) (*Config, error) {
	// Existing environment wins over .env, matching python-dotenv.
	_ = godotenv.Load()

	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, overrides)
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("outreach")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "outreach"))
	}

	return v
}

func buildConfig(v *viper.Viper, overrides Overrides) (*Config, error) {
	cfg := &Config{
		Port:                 "3000",
		SpreadsheetID:        sheets.DefaultSpreadsheetID,
		LeadsSheet:           sheets.DefaultLeadsSheet,
		CategoriesSheet:      sheets.DefaultCategoriesSheet,
		FetchTimeout:         sheets.DefaultFetchTimeout,
		FiltersEnabled:       true,
		CredentialPrecedence: "env,secrets",
		SecretsFile:          "./secrets.toml",
		ReleaseRepo:          DefaultReleaseRepo,
	}

	stringKeys := []struct {
		key, env string
		dst      *string
	}{
		{"port", "PORT", &cfg.Port},
		{"spreadsheet_id", "SPREADSHEET_ID", &cfg.SpreadsheetID},
		{"leads_sheet", "LEADS_SHEET", &cfg.LeadsSheet},
		{"categories_sheet", "CATEGORIES_SHEET", &cfg.CategoriesSheet},
		{"credential_precedence", "CREDENTIAL_PRECEDENCE", &cfg.CredentialPrecedence},
		{"secrets_file", "SECRETS_FILE", &cfg.SecretsFile},
		{"refresh_token", "REFRESH_TOKEN", &cfg.RefreshToken},
		{"release_repo", "RELEASE_REPO", &cfg.ReleaseRepo},
	}
	for _, s := range stringKeys {
		if v.IsSet(s.key) {
			*s.dst = v.GetString(s.key)
		} else if env := os.Getenv(s.env); env != "" {
			*s.dst = env
		}
	}

	durations := []struct {
		key, env string
		dst      *time.Duration
	}{
		{"cache_ttl", "CACHE_TTL", &cfg.CacheTTL},
		{"fetch_timeout", "FETCH_TIMEOUT", &cfg.FetchTimeout},
		{"refresh_interval", "REFRESH_INTERVAL", &cfg.RefreshInterval},
	}
	for _, d := range durations {
		if v.IsSet(d.key) {
			*d.dst = v.GetDuration(d.key)
		} else if env := os.Getenv(d.env); env != "" {
			parsed, err := time.ParseDuration(env)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", d.env, env, err)
			}
			*d.dst = parsed
		}
	}

	if v.IsSet("filters_enabled") {
		cfg.FiltersEnabled = v.GetBool("filters_enabled")
	} else if env := os.Getenv("FILTERS_ENABLED"); env != "" {
		enabled, err := strconv.ParseBool(env)
		if err != nil {
			return nil, fmt.Errorf("invalid FILTERS_ENABLED %q: %w", env, err)
		}
		cfg.FiltersEnabled = enabled
	}

	// Apply overrides (flags) last
	if overrides.Port != "" {
		cfg.Port = overrides.Port
	}
	if overrides.SpreadsheetID != "" {
		cfg.SpreadsheetID = overrides.SpreadsheetID
	}
	if overrides.SecretsFile != "" {
		cfg.SecretsFile = overrides.SecretsFile
	}

	id, err := SanitizeSpreadsheetID(cfg.SpreadsheetID)
	if err != nil {
		return nil, err
	}
	cfg.SpreadsheetID = id

	return cfg, nil
}

// SheetOptions returns the loader options described by the config.
func (c *Config) SheetOptions() sheets.Options {
	return sheets.Options{
		SpreadsheetID:   c.SpreadsheetID,
		LeadsSheet:      c.LeadsSheet,
		CategoriesSheet: c.CategoriesSheet,
		CacheTTL:        c.CacheTTL,
		FetchTimeout:    c.FetchTimeout,
	}
}

// CredentialSources returns the credential sources in configured order.
func (c *Config) CredentialSources() ([]credentials.Source, error) {
	precedence, err := credentials.ParsePrecedence(c.CredentialPrecedence)
	if err != nil {
		return nil, err
	}
	return credentials.Sources(precedence, c.SecretsFile), nil
}
