package dashboard

import (
	"slices"

	"github.com/peekr/outreach/internal/country"
	"github.com/peekr/outreach/internal/report"
	"github.com/peekr/outreach/internal/table"
)

// All is the selector value that disables a filter.
const All = "All"

// Selection holds the sidebar choices.
type Selection struct {
	Country string `json:"country"`
	Domain  string `json:"domain"`
}

// IsAll reports whether neither filter is active.
func (s Selection) IsAll() bool {
	return isAll(s.Country) && isAll(s.Domain)
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Normalized replaces empty values with All.
func (s Selection) Normalized() Selection {
	if s.Country == "" {
		s.Country = All
	}
	if s.Domain == "" {
		s.Domain = All
	}
	return s
}

// ApplyFilter narrows t to rows matching the selection. Each predicate is
// an exact match on its column and is skipped when the table lacks the
// column. The source table is never modified.
func ApplyFilter(t *table.Table, sel Selection) *table.Table {
	out := t
	out = filterEquals(out, country.CountryColumn, sel.Country)
	out = filterEquals(out, report.DomainColumn, sel.Domain)
	return out
}

func filterEquals(t *table.Table, column, value string) *table.Table {
	if isAll(value) || !t.Has(column) {
		return t
	}
	return t.Filter(func(i int) bool {
		return t.Value(i, column) == value
	})
}

// Options lists the values offered by the selectors, All first.
type Options struct {
	Countries []string `json:"countries"`
	Domains   []string `json:"domains"`
}

// FilterOptions collects selector values from unfiltered tables.
func FilterOptions(leads, categories *table.Table) Options {
	return Options{
		Countries: bucketOrder(choices(categories.Column(country.CountryColumn), leads.Column(country.CountryColumn))),
		Domains:   choices(leads.Column(report.DomainColumn)),
	}
}

// bucketOrder lists known country buckets in classification order ahead
// of any other values, which keep their sorted order.
func bucketOrder(values []string) []string {
	out := make([]string, 0, len(values))
	out = append(out, All)
	for _, b := range country.Buckets() {
		if slices.Contains(values[1:], string(b)) {
			out = append(out, string(b))
		}
	}
	for _, v := range values[1:] {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func choices(columns ...[]string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, col := range columns {
		for _, v := range col {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return append([]string{All}, values...)
}
