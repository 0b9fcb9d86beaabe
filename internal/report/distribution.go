package report

import (
	"cmp"
	"slices"

	"github.com/peekr/outreach/internal/table"
)

// Bucket is one value of a distribution and how many rows carry it.
type Bucket struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Distribution is ordered by count, highest first.
type Distribution []Bucket

// ValueDistribution counts each distinct value of column. Ties keep the
// order in which values first appear, so repeated calls agree.
// A missing column yields an empty distribution.
func ValueDistribution(t *table.Table, column string) Distribution {
	values := t.Column(column)
	if values == nil {
		return Distribution{}
	}

	positions := make(map[string]int)
	dist := Distribution{}
	for _, v := range values {
		if idx, ok := positions[v]; ok {
			dist[idx].Count++
			continue
		}
		positions[v] = len(dist)
		dist = append(dist, Bucket{Name: v, Count: 1})
	}

	slices.SortStableFunc(dist, func(a, b Bucket) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return dist
}

// Total sums every bucket count.
func (d Distribution) Total() int {
	total := 0
	for _, b := range d {
		total += b.Count
	}
	return total
}

// Percentages returns each bucket's share of the total in bucket order.
func (d Distribution) Percentages() []float64 {
	total := d.Total()
	out := make([]float64, len(d))
	if total == 0 {
		return out
	}
	for i, b := range d {
		out[i] = float64(b.Count) / float64(total) * 100
	}
	return out
}

// Max returns the largest count, 0 for an empty distribution. It does not
// assume d is sorted.
func (d Distribution) Max() int {
	largest := 0
	for _, b := range d {
		largest = max(largest, b.Count)
	}
	return largest
}
