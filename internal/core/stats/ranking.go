package stats

import (
	"slices"

	"opendash/internal/core/records"
)

// TopN is the default ranking size
const TopN = 10

// Entry is a rankable usage figure
type Entry struct {
	Name        string
	Institution string
	Count       int64
}

// RankedEntry is one row of a top-N list
type RankedEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	Institution string `json:"institution"`
	Count       int64  `json:"count"`
	Usage       string `json:"usage"`
}

// APIEntries projects api call rows onto rankable entries
func APIEntries(calls []records.APICall) []Entry {
	out := make([]Entry, 0, len(calls))
	for _, c := range calls {
		out = append(out, Entry{Name: c.Name, Institution: c.Agency, Count: c.Calls})
	}
	return out
}

// DownloadEntries projects file download rows onto rankable entries
func DownloadEntries(downloads []records.FileDownload) []Entry {
	out := make([]Entry, 0, len(downloads))
	for _, d := range downloads {
		out = append(out, Entry{Name: d.Name, Institution: d.Agency, Count: d.Downloads})
	}
	return out
}

// Rank drops zero counts, sorts by count descending keeping input order on ties, and keeps the top n
func Rank(entries []Entry, n int) []RankedEntry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Count > 0 {
			kept = append(kept, e)
		}
	}
	slices.SortStableFunc(kept, func(a, b Entry) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		}
		return 0
	})
	if n >= 0 && len(kept) > n {
		kept = kept[:n]
	}
	out := make([]RankedEntry, len(kept))
	for i, e := range kept {
		out[i] = RankedEntry{
			Rank:        i + 1,
			Name:        e.Name,
			Institution: e.Institution,
			Count:       e.Count,
			Usage:       FormatMagnitude(e.Count),
		}
	}
	return out
}

// Totals is the headline numbers row
type Totals struct {
	TotalDatasets  int   `json:"totalDatasets"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalAPICalls  int64 `json:"totalApiCalls"`
}

// ComputeTotals sums the headline numbers over the given snapshots
func ComputeTotals(ds []records.Dataset, api []records.APICall, downloads []records.FileDownload) Totals {
	t := Totals{TotalDatasets: len(ds)}
	for _, c := range api {
		t.TotalAPICalls += c.Calls
	}
	for _, d := range downloads {
		t.TotalDownloads += d.Downloads
	}
	return t
}
