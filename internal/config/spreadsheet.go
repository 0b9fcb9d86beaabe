package config

import (
	"fmt"
	"net/url"
	"strings"
)

// SanitizeSpreadsheetID accepts either a bare spreadsheet ID or a
// docs.google.com spreadsheet URL and returns the ID.
func SanitizeSpreadsheetID(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", fmt.Errorf("spreadsheet id cannot be empty")
	}

	if strings.Contains(cleaned, "://") {
		u, err := url.Parse(cleaned)
		if err != nil {
			return "", fmt.Errorf("invalid spreadsheet url")
		}
		if !strings.EqualFold(u.Host, "docs.google.com") {
			return "", fmt.Errorf("spreadsheet url must point at docs.google.com")
		}
		// /spreadsheets/d/<id>/edit
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 3 || parts[0] != "spreadsheets" || parts[1] != "d" {
			return "", fmt.Errorf("spreadsheet url must look like /spreadsheets/d/<id>")
		}
		cleaned = parts[2]
	}

	if strings.ContainsAny(cleaned, " \t\r\n/?#") {
		return "", fmt.Errorf("spreadsheet id contains invalid characters")
	}
	return cleaned, nil
}
