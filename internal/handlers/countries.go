package handlers

import (
	"github.com/peekr/outreach/internal/country"
)

// decorateCountries attaches ISO codes and names to country buckets.
// Other has no code and keeps its label.
func decorateCountries(items []BreakdownItem) {
	for i := range items {
		bucket := country.Bucket(items[i].Name)
		if code := bucket.Code(); code != "" {
			items[i].Code = code
			items[i].FullName = bucket.Name()
		}
	}
}
