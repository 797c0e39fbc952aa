// Package stats folds typed records into the numbers the dashboard shows
// Every function is total: nil or empty input yields an empty or zeroed result
package stats

import (
	"slices"
	"strings"

	"opendash/internal/core/records"
)

const (
	// AllLabel names the synthetic total row
	AllLabel = "All"
	// OtherLabel collects records without a category
	OtherLabel = "Other"
	// ChartSize is how many categories the bar chart shows
	ChartSize = 7
)

// CategoryStat is one row of the category table or one chart bar
type CategoryStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryOf returns the bucket a record belongs to
func CategoryOf(d records.Dataset) string {
	if c := strings.TrimSpace(d.Category); c != "" {
		return c
	}
	return OtherLabel
}

// Categories counts records per category
// The result starts with All, then categories by count descending, ties in first-seen order
func Categories(ds []records.Dataset) []CategoryStat {
	idx := make(map[string]int)
	var cats []CategoryStat
	for _, d := range ds {
		name := CategoryOf(d)
		i, ok := idx[name]
		if !ok {
			i = len(cats)
			idx[name] = i
			cats = append(cats, CategoryStat{Name: name})
		}
		cats[i].Count++
	}
	slices.SortStableFunc(cats, func(a, b CategoryStat) int { return b.Count - a.Count })

	out := make([]CategoryStat, 0, len(cats)+1)
	out = append(out, CategoryStat{Name: AllLabel, Count: len(ds)})
	return append(out, cats...)
}

// ChartCategories drops the All row and keeps the first n
func ChartCategories(stats []CategoryStat, n int) []CategoryStat {
	out := make([]CategoryStat, 0, n)
	for _, s := range stats {
		if s.Name == AllLabel {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, s)
	}
	return out
}

// FilterByNamePrefix keeps records whose listing name starts with any prefix
// An empty prefix list keeps everything
func FilterByNamePrefix(ds []records.Dataset, prefixes []string) []records.Dataset {
	if len(prefixes) == 0 {
		return ds
	}
	out := make([]records.Dataset, 0, len(ds))
	for _, d := range ds {
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(d.Name, p) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
