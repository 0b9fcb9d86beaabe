package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekr/outreach/internal/table"
)

func mustTable(t *testing.T, columns []string, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	return tbl
}

func leadsFixture(t *testing.T) *table.Table {
	return mustTable(t, []string{"Email", "domain", "Country"}, [][]string{
		{"a@acme.com", "acme.com", "UAE"},
		{"b@acme.com", "acme.com", "Poland"},
		{"c@globex.com", "globex.com", "UAE"},
		{"", "", "Other"},
	})
}

func TestApplyFilterAllIsIdentity(t *testing.T) {
	leads := leadsFixture(t)

	assert.Same(t, leads, ApplyFilter(leads, Selection{Country: All, Domain: All}))
	assert.Same(t, leads, ApplyFilter(leads, Selection{}))
}

func TestApplyFilterByCountry(t *testing.T) {
	leads := leadsFixture(t)

	out := ApplyFilter(leads, Selection{Country: "UAE", Domain: All})

	require.Equal(t, 2, out.Len())
	for i := 0; i < out.Len(); i++ {
		assert.Equal(t, "UAE", out.Value(i, "Country"))
	}
	assert.Equal(t, 4, leads.Len())

	again := ApplyFilter(out, Selection{Country: "UAE", Domain: All})
	assert.Equal(t, out.Rows(), again.Rows())
}

func TestApplyFilterByCountryAndDomain(t *testing.T) {
	out := ApplyFilter(leadsFixture(t), Selection{Country: "UAE", Domain: "acme.com"})

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "a@acme.com", out.Value(0, "Email"))
}

func TestApplyFilterSkipsMissingColumns(t *testing.T) {
	categories := mustTable(t, []string{"Category", "Country"}, [][]string{
		{"Retail", "UAE"},
		{"Tech", "Poland"},
	})

	out := ApplyFilter(categories, Selection{Country: "Poland", Domain: "acme.com"})

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Tech", out.Value(0, "Category"))
}

func TestApplyFilterNoMatches(t *testing.T) {
	out := ApplyFilter(leadsFixture(t), Selection{Country: "Poland", Domain: "globex.com"})

	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string{"Email", "domain", "Country"}, out.Columns())
}

func TestSelectionNormalized(t *testing.T) {
	sel := Selection{Domain: "acme.com"}.Normalized()

	assert.Equal(t, All, sel.Country)
	assert.Equal(t, "acme.com", sel.Domain)
	assert.False(t, sel.IsAll())
	assert.True(t, Selection{}.IsAll())
}

func TestFilterOptions(t *testing.T) {
	categories := mustTable(t, []string{"Location", "Country"}, [][]string{
		{"Dubai", "UAE"},
		{"Krakow", "Poland"},
		{"", "Other"},
	})

	opts := FilterOptions(leadsFixture(t), categories)

	assert.Equal(t, []string{All, "UAE", "Poland", "Other"}, opts.Countries)
	assert.Equal(t, []string{All, "acme.com", "globex.com"}, opts.Domains)
}

func TestFilterOptionsKeepsUnknownCountriesAfterBuckets(t *testing.T) {
	leads := mustTable(t, []string{"Country"}, [][]string{{"Germany"}, {"Other"}, {"Austria"}, {"UAE"}})

	opts := FilterOptions(leads, mustTable(t, nil, nil))

	assert.Equal(t, []string{All, "UAE", "Other", "Austria", "Germany"}, opts.Countries)
}

func TestFilterOptionsWithoutColumns(t *testing.T) {
	empty := mustTable(t, nil, nil)

	opts := FilterOptions(empty, empty)

	assert.Equal(t, []string{All}, opts.Countries)
	assert.Equal(t, []string{All}, opts.Domains)
}
