package country

import (
	"strings"

	"github.com/biter777/countries"

	"github.com/peekr/outreach/internal/table"
)

// Bucket is a normalized country label derived from free-text location.
type Bucket string

const (
	UAE    Bucket = "UAE"
	Poland Bucket = "Poland"
	Other  Bucket = "Other"
)

// Default column names used by the dashboard sheets.
const (
	LocationColumn = "Location"
	CountryColumn  = "Country"
)

// rules are checked in order; the first token found in the location wins.
var rules = []struct {
	bucket Bucket
	code   countries.CountryCode
	tokens []string
}{
	{UAE, countries.UnitedArabEmirates, []string{"dubai", "abu dhabi", "ras al khaimah", "uae"}},
	{Poland, countries.Poland, []string{"poland"}},
}

// Classify maps free-text location to a bucket by case-insensitive substring match.
func Classify(location string) Bucket {
	lowered := strings.ToLower(location)
	for _, rule := range rules {
		for _, token := range rule.tokens {
			if strings.Contains(lowered, token) {
				return rule.bucket
			}
		}
	}
	return Other
}

// Buckets lists every bucket in classification order, Other last.
func Buckets() []Bucket {
	out := make([]Bucket, 0, len(rules)+1)
	for _, rule := range rules {
		out = append(out, rule.bucket)
	}
	return append(out, Other)
}

// Code returns the ISO 3166-1 alpha-2 code of the bucket, "" for Other.
func (b Bucket) Code() string {
	for _, rule := range rules {
		if rule.bucket == b {
			return rule.code.Alpha2()
		}
	}
	return ""
}

// Name returns the English country name, or the bucket label for Other.
func (b Bucket) Name() string {
	for _, rule := range rules {
		if rule.bucket == b {
			return rule.code.String()
		}
	}
	return string(b)
}

// Augment returns a copy of t with countryCol derived from locationCol.
// Tables without the location column are returned unchanged.
func Augment(t *table.Table, locationCol, countryCol string) *table.Table {
	if !t.Has(locationCol) {
		return t
	}
	return t.WithColumn(countryCol, func(i int) string {
		return string(Classify(t.Value(i, locationCol)))
	})
}
