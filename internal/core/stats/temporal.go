package stats

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"opendash/internal/core/records"
)

// Supported year range for trend charts, inclusive
const (
	FirstYear = 2020
	LastYear  = 2024
)

// YearlyTrendPoint is one bar group in the yearly chart
type YearlyTrendPoint struct {
	Year      string `json:"year"`
	Downloads int64  `json:"downloads"`
	APICalls  int64  `json:"apiCalls"`
}

// MonthlyPoint is one month in the drill-down view
type MonthlyPoint struct {
	Period        string `json:"period"`
	Month         int    `json:"month"`
	Downloads     int64  `json:"downloads"`
	APICalls      int64  `json:"apiCalls"`
	TotalDatasets int64  `json:"totalDatasets"`
	Updated       int64  `json:"updatedDatasets"`
	Outdated      int64  `json:"outdatedDatasets"`
}

// YearCount is the number of telemetry rows attributed to one year
type YearCount struct {
	Year    string `json:"year"`
	Records int    `json:"records"`
}

// InRange reports whether y is a supported chart year
func InRange(y int) bool { return y >= FirstYear && y <= LastYear }

// YearOf extracts the calendar year a statistics date belongs to
// Priority: hyphen split, YYYYMMDD, YYYY, a plausible 4 digit prefix, native time, layout parse
func YearOf(s records.Stamp) (int, bool) {
	t := strings.TrimSpace(s.Text)
	if t != "" {
		if i := strings.IndexByte(t, '-'); i > 0 {
			if y, err := strconv.Atoi(strings.TrimSpace(t[:i])); err == nil {
				return y, true
			}
		}
		if len(t) == 8 && digits(t) {
			y, _ := strconv.Atoi(t[:4])
			return y, true
		}
		if len(t) == 4 && digits(t) {
			y, _ := strconv.Atoi(t)
			return y, true
		}
		if len(t) >= 4 && digits(t[:4]) {
			if y, _ := strconv.Atoi(t[:4]); y >= 2000 && y <= 2030 {
				return y, true
			}
		}
	}
	if !s.Time.IsZero() {
		return s.Time.Year(), true
	}
	if d, ok := records.ParseDate(s); ok {
		return d.Year(), true
	}
	return 0, false
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

type yearBuckets [LastYear - FirstYear + 1]YearlyTrendPoint

func newBuckets() *yearBuckets {
	var b yearBuckets
	for i := range b {
		b[i].Year = strconv.Itoa(FirstYear + i)
	}
	return &b
}

func (b *yearBuckets) at(y int) *YearlyTrendPoint { return &b[y-FirstYear] }

// YearlyFromLogs recomputes yearly totals from raw telemetry
func YearlyFromLogs(api []records.APICall, downloads []records.FileDownload) []YearlyTrendPoint {
	b := newBuckets()
	for _, c := range api {
		if y, ok := YearOf(c.StatDate); ok && InRange(y) {
			b.at(y).APICalls += c.Calls
		}
	}
	for _, d := range downloads {
		if y, ok := YearOf(d.StatDate); ok && InRange(y) {
			b.at(y).Downloads += d.Downloads
		}
	}
	return b[:]
}

// YearlyFromMonthly sums monthly rollups per year
func YearlyFromMonthly(monthly []records.MonthlyAggregate) []YearlyTrendPoint {
	b := newBuckets()
	for _, m := range dedupe(monthly) {
		if InRange(m.Year) {
			p := b.at(m.Year)
			p.Downloads += m.TotalDownloads
			p.APICalls += m.TotalAPICalls
		}
	}
	return b[:]
}

// Yearly merges both sources: a year covered by monthly rollups uses them,
// any other year is recomputed from the raw logs. Missing years stay zero
func Yearly(monthly []records.MonthlyAggregate, api []records.APICall, downloads []records.FileDownload) []YearlyTrendPoint {
	covered := make(map[int]bool)
	for _, m := range monthly {
		if m.Valid() && InRange(m.Year) {
			covered[m.Year] = true
		}
	}
	if len(covered) == 0 {
		return YearlyFromLogs(api, downloads)
	}
	fromMonthly := YearlyFromMonthly(monthly)
	if len(covered) == LastYear-FirstYear+1 {
		return fromMonthly
	}
	fromLogs := YearlyFromLogs(api, downloads)
	out := make([]YearlyTrendPoint, len(fromLogs))
	for i := range fromLogs {
		if covered[FirstYear+i] {
			out[i] = fromMonthly[i]
		} else {
			out[i] = fromLogs[i]
		}
	}
	return out
}

// Unplaced counts telemetry rows that fall outside every supported year or carry no usable date
func Unplaced(api []records.APICall, downloads []records.FileDownload) int {
	n := 0
	for _, c := range api {
		if y, ok := YearOf(c.StatDate); !ok || !InRange(y) {
			n++
		}
	}
	for _, d := range downloads {
		if y, ok := YearOf(d.StatDate); !ok || !InRange(y) {
			n++
		}
	}
	return n
}

// MonthlyDrilldown returns the months present for year in ascending order
func MonthlyDrilldown(monthly []records.MonthlyAggregate, year int) []MonthlyPoint {
	var out []MonthlyPoint
	for _, m := range dedupe(monthly) {
		if m.Year != year {
			continue
		}
		out = append(out, MonthlyPoint{
			Period:        fmt.Sprintf("%d-%02d", m.Year, m.Month),
			Month:         m.Month,
			Downloads:     m.TotalDownloads,
			APICalls:      m.TotalAPICalls,
			TotalDatasets: m.TotalDatasets,
			Updated:       m.UpdatedDatasets,
			Outdated:      m.OutdatedDatasets,
		})
	}
	slices.SortFunc(out, func(a, b MonthlyPoint) int { return a.Month - b.Month })
	if out == nil {
		return []MonthlyPoint{}
	}
	return out
}

// YearlyRecordCounts counts download rows per supported year
func YearlyRecordCounts(downloads []records.FileDownload) []YearCount {
	out := make([]YearCount, LastYear-FirstYear+1)
	for i := range out {
		out[i].Year = strconv.Itoa(FirstYear + i)
	}
	for _, d := range downloads {
		if y, ok := YearOf(d.StatDate); ok && InRange(y) {
			out[y-FirstYear].Records++
		}
	}
	return out
}

// LatestMonth returns the newest valid rollup, false when there is none
func LatestMonth(monthly []records.MonthlyAggregate) (records.MonthlyAggregate, bool) {
	var best records.MonthlyAggregate
	found := false
	for _, m := range monthly {
		if !m.Valid() {
			continue
		}
		if !found || m.Year > best.Year || (m.Year == best.Year && m.Month > best.Month) {
			best, found = m, true
		}
	}
	return best, found
}

// dedupe keeps the first rollup per (year, month) and drops invalid keys
func dedupe(monthly []records.MonthlyAggregate) []records.MonthlyAggregate {
	seen := make(map[[2]int]bool, len(monthly))
	out := make([]records.MonthlyAggregate, 0, len(monthly))
	for _, m := range monthly {
		k := [2]int{m.Year, m.Month}
		if !m.Valid() || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return out
}
