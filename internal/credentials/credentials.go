package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
)

// Scopes requested for the service account. Read-only access is enough.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/drive.readonly",
}

const (
	defaultAuthURI      = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURI     = "https://oauth2.googleapis.com/token"
	defaultProviderCert = "https://www.googleapis.com/oauth2/v1/certs"
	robotCertPrefix     = "https://www.googleapis.com/robot/v1/metadata/x509/"
	defaultUniverse     = "googleapis.com"
)

// ServiceAccount mirrors the Google service-account key file.
type ServiceAccount struct {
	Type                    string `json:"type" mapstructure:"type"`
	ProjectID               string `json:"project_id" mapstructure:"project_id"`
	PrivateKeyID            string `json:"private_key_id" mapstructure:"private_key_id"`
	PrivateKey              string `json:"private_key" mapstructure:"private_key"`
	ClientEmail             string `json:"client_email" mapstructure:"client_email"`
	ClientID                string `json:"client_id" mapstructure:"client_id"`
	AuthURI                 string `json:"auth_uri" mapstructure:"auth_uri"`
	TokenURI                string `json:"token_uri" mapstructure:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url" mapstructure:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url" mapstructure:"client_x509_cert_url"`
	UniverseDomain          string `json:"universe_domain" mapstructure:"universe_domain"`
}

// NormalizePrivateKey turns literal "\n" sequences into real newlines.
// Keys pasted into env files usually arrive escaped.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// withDefaults fills the URI fields Google expects but operators rarely set.
func (a ServiceAccount) withDefaults() ServiceAccount {
	if a.Type == "" {
		a.Type = "service_account"
	}
	if a.AuthURI == "" {
		a.AuthURI = defaultAuthURI
	}
	if a.TokenURI == "" {
		a.TokenURI = defaultTokenURI
	}
	if a.AuthProviderX509CertURL == "" {
		a.AuthProviderX509CertURL = defaultProviderCert
	}
	if a.ClientX509CertURL == "" && a.ClientEmail != "" {
		a.ClientX509CertURL = robotCertPrefix + strings.ReplaceAll(a.ClientEmail, "@", "%40")
	}
	if a.UniverseDomain == "" {
		a.UniverseDomain = defaultUniverse
	}
	a.PrivateKey = NormalizePrivateKey(a.PrivateKey)
	return a
}

// JSON encodes the account as a key file.
func (a ServiceAccount) JSON() ([]byte, error) {
	return json.Marshal(a)
}

// Client returns an HTTP client authorized as the service account.
func Client(ctx context.Context, account ServiceAccount) (*http.Client, error) {
	if account.ClientEmail == "" || account.PrivateKey == "" {
		return nil, &CredentialError{
			Source: "service account",
			Reason: "client_email and private_key are required",
		}
	}

	raw, err := account.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode service account: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(raw, Scopes...)
	if err != nil {
		return nil, &CredentialError{Source: "service account", Reason: "invalid key", Err: err}
	}
	return cfg.Client(ctx), nil
}
