package report

import (
	"github.com/peekr/outreach/internal/country"
	"github.com/peekr/outreach/internal/table"
)

// Cards holds the four headline counts.
type Cards struct {
	TotalLeads    int `json:"total_leads" yaml:"total_leads"`
	ValidEmails   int `json:"valid_emails" yaml:"valid_emails"`
	UniqueDomains int `json:"unique_domains" yaml:"unique_domains"`
	Categories    int `json:"categories" yaml:"categories"`
}

// Summary is everything the dashboard draws, computed from one pair of tables.
type Summary struct {
	Cards      Cards        `json:"cards" yaml:"cards"`
	Locations  Distribution `json:"locations" yaml:"locations"`
	Countries  Distribution `json:"countries" yaml:"countries"`
	Categories Distribution `json:"categories" yaml:"categories"`
	Email      EmailStatus  `json:"email" yaml:"email"`
	Flow       Flow         `json:"flow" yaml:"flow"`
}

// Summarize computes cards from leads and the location/country charts from categories.
func Summarize(leads, categories *table.Table) Summary {
	return Summary{
		Cards: Cards{
			TotalLeads:    TotalCount(leads),
			ValidEmails:   ValidEmailCount(leads),
			UniqueDomains: UniqueDomainCount(leads),
			Categories:    DistinctCategoryCount(leads),
		},
		Locations:  ValueDistribution(categories, country.LocationColumn),
		Countries:  ValueDistribution(categories, country.CountryColumn),
		Categories: ValueDistribution(leads, CategoryColumn),
		Email:      EmailAvailability(leads),
		Flow:       CommunicationFlowSummary(leads),
	}
}
