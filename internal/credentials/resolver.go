package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// SecretsKey is the table holding service-account fields in the secrets file.
const SecretsKey = "gcp_service_account"

// Environment variables read by the env source.
const (
	EnvProjectID    = "GCP_PROJECT_ID"
	EnvPrivateKeyID = "GCP_PRIVATE_KEY_ID"
	EnvPrivateKey   = "GCP_PRIVATE_KEY"
	EnvClientEmail  = "GCP_CLIENT_EMAIL"
	EnvClientID     = "GCP_CLIENT_ID"
)

// Kind names a credential source.
type Kind string

const (
	KindEnv     Kind = "env"
	KindSecrets Kind = "secrets"
)

// DefaultPrecedence checks environment variables before the secrets file.
var DefaultPrecedence = []Kind{KindEnv, KindSecrets}

// ErrUnknownKind is returned when a precedence entry names no known source.
var ErrUnknownKind = errors.New("unknown credential source")

// Source is one place credentials may come from. Exactly one of the
// kind-specific fields is meaningful.
type Source struct {
	Kind Kind

	// Getenv backs KindEnv; os.Getenv when nil.
	Getenv func(string) string

	// SecretsFile backs KindSecrets.
	SecretsFile string
}

// Describe names the source for operator-facing messages.
func (s Source) Describe() string {
	switch s.Kind {
	case KindEnv:
		return "environment variables (" + EnvProjectID + ", " + EnvPrivateKey + ", ...)"
	case KindSecrets:
		return fmt.Sprintf("secrets file %s [%s]", s.SecretsFile, SecretsKey)
	default:
		return string(s.Kind)
	}
}

// load returns the account and whether the source was populated.
func (s Source) load() (ServiceAccount, bool, error) {
	switch s.Kind {
	case KindEnv:
		account, ok := fromEnv(s.Getenv)
		return account, ok, nil
	case KindSecrets:
		return fromSecretsFile(s.SecretsFile)
	default:
		return ServiceAccount{}, false, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
}

func fromEnv(getenv func(string) string) (ServiceAccount, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if getenv(EnvProjectID) == "" || getenv(EnvPrivateKey) == "" {
		return ServiceAccount{}, false
	}
	account := ServiceAccount{
		ProjectID:    getenv(EnvProjectID),
		PrivateKeyID: getenv(EnvPrivateKeyID),
		PrivateKey:   getenv(EnvPrivateKey),
		ClientEmail:  getenv(EnvClientEmail),
		ClientID:     getenv(EnvClientID),
	}
	return account.withDefaults(), true
}

func fromSecretsFile(path string) (ServiceAccount, bool, error) {
	if path == "" {
		return ServiceAccount{}, false, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ServiceAccount{}, false, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return ServiceAccount{}, false, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	if !v.IsSet(SecretsKey) {
		return ServiceAccount{}, false, nil
	}

	var account ServiceAccount
	if err := v.UnmarshalKey(SecretsKey, &account); err != nil {
		return ServiceAccount{}, false, fmt.Errorf("decode %s: %w", SecretsKey, err)
	}
	return account.withDefaults(), true, nil
}

// Resolve returns the account from the first populated source, in order.
func Resolve(sources []Source) (ServiceAccount, Source, error) {
	consulted := make([]string, 0, len(sources))
	for _, src := range sources {
		account, ok, err := src.load()
		if err != nil {
			return ServiceAccount{}, src, &CredentialError{Source: src.Describe(), Reason: "unreadable", Err: err}
		}
		if ok {
			return account, src, nil
		}
		consulted = append(consulted, src.Describe())
	}

	return ServiceAccount{}, Source{}, &CredentialError{
		Source: strings.Join(consulted, "; "),
		Reason: "no credentials found",
	}
}

// ParsePrecedence parses a comma-separated list such as "secrets,env".
func ParsePrecedence(raw string) ([]Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultPrecedence, nil
	}

	var kinds []Kind
	seen := make(map[Kind]bool)
	for _, part := range strings.Split(raw, ",") {
		kind := Kind(strings.ToLower(strings.TrimSpace(part)))
		if kind == "" || seen[kind] {
			continue
		}
		if kind != KindEnv && kind != KindSecrets {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Sources builds sources for the given precedence.
func Sources(precedence []Kind, secretsFile string) []Source {
	sources := make([]Source, 0, len(precedence))
	for _, kind := range precedence {
		sources = append(sources, Source{Kind: kind, SecretsFile: secretsFile})
	}
	return sources
}
