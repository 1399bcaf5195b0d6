// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/glimpse/internal/model"
)

// MostMissed returns up to n characters with the most misses.
func MostMissed(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Missed > 0 {
			items = append(items, agg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Missed == items[j].Missed {
			return items[i].Char < items[j].Char
		}
		return items[i].Missed > items[j].Missed
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Char)
	}
	return out
}
