package report

import (
	"strings"

	"github.com/peekr/outreach/internal/table"
)

// Lead sheet columns.
const (
	EmailColumn      = "Email"
	ValidEmailColumn = "Valid Email"
	DomainColumn     = "domain"
	CategoryColumn   = "Category"
	StatusColumn     = "Status"
	ReplyColumn      = "Mail reply send"
	FollowUpColumn   = "Follow Up"
)

// TotalCount returns the number of rows.
func TotalCount(t *table.Table) int {
	return t.Len()
}

// ValidEmailCount counts rows whose valid-email cell is non-empty.
// Only the "Valid Email" column is inspected; see EmailAvailability for
// the either-column rule.
func ValidEmailCount(t *table.Table) int {
	count := 0
	for _, v := range t.Column(ValidEmailColumn) {
		if v != "" {
			count++
		}
	}
	return count
}

// UniqueDomainCount returns the number of distinct domain values, 0 without the column.
func UniqueDomainCount(t *table.Table) int {
	return distinct(t, DomainColumn)
}

// DistinctCategoryCount returns the number of distinct category values, 0 without the column.
func DistinctCategoryCount(t *table.Table) int {
	return distinct(t, CategoryColumn)
}

func distinct(t *table.Table, column string) int {
	if !t.Has(column) {
		return 0
	}
	seen := make(map[string]struct{})
	for _, v := range t.Column(column) {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// EmailStatus splits rows by whether any email address is known.
type EmailStatus struct {
	HasEmail int `json:"has_email" yaml:"has_email"`
	NoEmail  int `json:"no_email" yaml:"no_email"`
}

// EmailAvailability counts a row as having email when either the email
// or the valid-email cell is non-empty.
func EmailAvailability(t *table.Table) EmailStatus {
	var status EmailStatus
	for i := range t.Len() {
		if t.Value(i, EmailColumn) != "" || t.Value(i, ValidEmailColumn) != "" {
			status.HasEmail++
		} else {
			status.NoEmail++
		}
	}
	return status
}

// Flow tallies the outreach funnel.
type Flow struct {
	Sent      int `json:"sent" yaml:"sent"`
	Answered  int `json:"answered" yaml:"answered"`
	FollowUps int `json:"follow_ups" yaml:"follow_ups"`
}

// CommunicationFlowSummary counts cells whose lower-cased value is exactly
// Status=="send", reply=="yes" and follow-up=="send". Blank cells never match.
func CommunicationFlowSummary(t *table.Table) Flow {
	return Flow{
		Sent:      countLowered(t, StatusColumn, "send"),
		Answered:  countLowered(t, ReplyColumn, "yes"),
		FollowUps: countLowered(t, FollowUpColumn, "send"),
	}
}

// countLowered compares lower-cased cells, so "ſend" is not "send".
func countLowered(t *table.Table, column, want string) int {
	count := 0
	for _, v := range t.Column(column) {
		if strings.ToLower(v) == want {
			count++
		}
	}
	return count
}
