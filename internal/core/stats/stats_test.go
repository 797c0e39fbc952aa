package stats

import (
	"reflect"
	"testing"
	"time"

	"opendash/internal/core/records"
	"opendash/internal/core/refresh"
)

func datasetsWith(spec ...any) []records.Dataset {
	var out []records.Dataset
	for i := 0; i < len(spec); i += 2 {
		cat := spec[i].(string)
		n := spec[i+1].(int)
		for j := 0; j < n; j++ {
			out = append(out, records.Dataset{ID: int64(len(out) + 1), Category: cat})
		}
	}
	return out
}

func TestCategoriesScenario(t *testing.T) {
	ds := datasetsWith(
		"주택/토지", 180, "Transport", 100, "Real Estate", 195, "교통", 170,
		"", 30, "Transport", 187, "건축", 150, "   ", 20, "도시", 120, "항공", 95,
	)
	if len(ds) != 1247 {
		t.Fatalf("fixture size = %d", len(ds))
	}

	got := Categories(ds)
	want := []CategoryStat{
		{AllLabel, 1247},
		{"Transport", 287},
		{"Real Estate", 195},
		{"주택/토지", 180},
		{"교통", 170},
		{"건축", 150},
		{"도시", 120},
		{"항공", 95},
		{OtherLabel, 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %+v, want %+v", got, want)
	}

	sum := 0
	for _, c := range got[1:] {
		sum += c.Count
	}
	if sum != len(ds) {
		t.Fatalf("bucket sum = %d, want %d", sum, len(ds))
	}
	if again := Categories(ds); !reflect.DeepEqual(again, got) {
		t.Fatalf("Categories not deterministic")
	}

	chart := ChartCategories(got, ChartSize)
	if len(chart) != ChartSize || chart[0].Name != "Transport" || chart[6].Name != "항공" {
		t.Fatalf("ChartCategories = %+v", chart)
	}
}

func TestCategoriesTiesAndEmpty(t *testing.T) {
	ds := []records.Dataset{{Category: "b"}, {Category: "a"}, {Category: "a"}, {Category: "b"}, {Category: "c"}}
	got := Categories(ds)
	want := []CategoryStat{{AllLabel, 5}, {"b", 2}, {"a", 2}, {"c", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ties = %+v, want %+v", got, want)
	}
	if got := Categories(nil); !reflect.DeepEqual(got, []CategoryStat{{AllLabel, 0}}) {
		t.Fatalf("Categories(nil) = %+v", got)
	}
	if CategoryOf(records.Dataset{Category: " \t"}) != CategoryOf(records.Dataset{}) {
		t.Fatalf("whitespace and absent categories differ")
	}
}

func TestFilterByNamePrefix(t *testing.T) {
	ds := []records.Dataset{
		{Name: "국토교통부_도로명주소"},
		{Name: "국토교통부 건축물대장"},
		{Name: "국토교통부건축"},
		{Name: "행정안전부_주소"},
	}
	got := FilterByNamePrefix(ds, []string{"국토교통부_", "국토교통부 "})
	if len(got) != 2 {
		t.Fatalf("FilterByNamePrefix kept %d, want 2", len(got))
	}
	if len(FilterByNamePrefix(ds, nil)) != 4 {
		t.Fatalf("empty prefix list should keep all")
	}
}

func TestYearOf(t *testing.T) {
	cases := []struct {
		in   records.Stamp
		want int
		ok   bool
	}{
		{records.Stamp{Text: "2023-05-01"}, 2023, true},
		{records.Stamp{Text: "20210101"}, 2021, true},
		{records.Stamp{Text: "2022"}, 2022, true},
		{records.Stamp{Text: "2024년 3월"}, 2024, true},
		{records.Stamp{Text: "1999년"}, 0, false},
		{records.Stamp{Time: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)}, 2020, true},
		{records.Stamp{Text: "2021/07/09"}, 2021, true},
		{records.Stamp{Text: "unknown"}, 0, false},
		{records.Stamp{}, 0, false},
	}
	for _, c := range cases {
		got, ok := YearOf(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("YearOf(%+v) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestYearlyFromLogs(t *testing.T) {
	api := []records.APICall{
		{StatDate: records.Stamp{Text: "2021-03-01"}, Calls: 10},
		{StatDate: records.Stamp{Text: "20210401"}, Calls: 5},
		{StatDate: records.Stamp{Text: "2019-01-01"}, Calls: 1000},
		{StatDate: records.Stamp{Text: "2025-01-01"}, Calls: 1000},
		{StatDate: records.Stamp{Text: "bogus"}, Calls: 7},
	}
	dl := []records.FileDownload{
		{StatDate: records.Stamp{Text: "2024"}, Downloads: 3},
	}
	got := YearlyFromLogs(api, dl)
	want := []YearlyTrendPoint{
		{"2020", 0, 0}, {"2021", 0, 15}, {"2022", 0, 0}, {"2023", 0, 0}, {"2024", 3, 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("YearlyFromLogs = %+v, want %+v", got, want)
	}
	if n := Unplaced(api, dl); n != 3 {
		t.Fatalf("Unplaced = %d, want 3", n)
	}
	if got := YearlyFromLogs(nil, nil); len(got) != 5 || got[0].Year != "2020" || got[4].Year != "2024" {
		t.Fatalf("empty input should still yield five zero points: %+v", got)
	}
}

func TestYearlyPrefersMonthlyPerYear(t *testing.T) {
	monthly := []records.MonthlyAggregate{
		{Year: 2023, Month: 1, TotalDownloads: 100, TotalAPICalls: 1000},
		{Year: 2023, Month: 2, TotalDownloads: 50, TotalAPICalls: 500},
		{Year: 2023, Month: 2, TotalDownloads: 9999}, // duplicate key ignored
		{Year: 2018, Month: 5, TotalDownloads: 1},
	}
	api := []records.APICall{
		{StatDate: records.Stamp{Text: "2023-06-01"}, Calls: 1},
		{StatDate: records.Stamp{Text: "2022-06-01"}, Calls: 42},
	}
	got := Yearly(monthly, api, nil)
	if got[3] != (YearlyTrendPoint{"2023", 150, 1500}) {
		t.Fatalf("2023 should come from monthly rows, got %+v", got[3])
	}
	if got[2] != (YearlyTrendPoint{"2022", 0, 42}) {
		t.Fatalf("2022 should come from logs, got %+v", got[2])
	}
	if len(got) != 5 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestMonthlyDrilldown(t *testing.T) {
	monthly := []records.MonthlyAggregate{
		{Year: 2024, Month: 3, TotalDownloads: 3},
		{Year: 2024, Month: 1, TotalDownloads: 1},
		{Year: 2023, Month: 2, TotalDownloads: 2},
	}
	got := MonthlyDrilldown(monthly, 2024)
	if len(got) != 2 || got[0].Period != "2024-01" || got[1].Month != 3 {
		t.Fatalf("MonthlyDrilldown = %+v", got)
	}
	if got := MonthlyDrilldown(nil, 2024); got == nil || len(got) != 0 {
		t.Fatalf("empty drilldown should be an empty slice")
	}
	latest, ok := LatestMonth(monthly)
	if !ok || latest.Year != 2024 || latest.Month != 3 {
		t.Fatalf("LatestMonth = %+v, %v", latest, ok)
	}
}

func TestYearlyRecordCounts(t *testing.T) {
	dl := []records.FileDownload{
		{StatDate: records.Stamp{Text: "2020-01-01"}},
		{StatDate: records.Stamp{Text: "2020-02-01"}},
		{StatDate: records.Stamp{Text: "2031-01-01"}},
	}
	got := YearlyRecordCounts(dl)
	if got[0] != (YearCount{"2020", 2}) || got[4] != (YearCount{"2024", 0}) {
		t.Fatalf("YearlyRecordCounts = %+v", got)
	}
}

func TestRank(t *testing.T) {
	entries := []Entry{
		{Name: "zero", Count: 0},
		{Name: "fifty", Count: 50},
		{Name: "two-million", Count: 2_000_000},
		{Name: "fifteen-hundred", Count: 1_500},
		{Name: "nine-nine-nine", Count: 999},
	}
	got := Rank(entries, 3)
	want := []RankedEntry{
		{Rank: 1, Name: "two-million", Count: 2_000_000, Usage: "2.0M"},
		{Rank: 2, Name: "fifteen-hundred", Count: 1_500, Usage: "1.5K"},
		{Rank: 3, Name: "nine-nine-nine", Count: 999, Usage: "999"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rank = %+v, want %+v", got, want)
	}
	if all := Rank(entries, TopN); len(all) != 4 {
		t.Fatalf("zero counts must be excluded, got %d entries", len(all))
	}

	ties := Rank([]Entry{{Name: "a", Count: 5}, {Name: "b", Count: 5}}, TopN)
	if ties[0].Name != "a" || ties[1].Name != "b" {
		t.Fatalf("ties should keep input order: %+v", ties)
	}
}

func TestFormatMagnitude(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1.0K"},
		{1_250, "1.3K"},
		{12_345, "12.3K"},
		{999_999, "1000.0K"},
		{1_050_000, "1.1M"},
		{1_250_000, "1.3M"},
		{2_000_000, "2.0M"},
	}
	for _, c := range cases {
		if got := FormatMagnitude(c.in); got != c.want {
			t.Fatalf("FormatMagnitude(%d) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := FormatCount(1_234_567); got != "1,234,567" {
		t.Fatalf("FormatCount = %q", got)
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(
		make([]records.Dataset, 4),
		[]records.APICall{{Calls: 10}, {Calls: 5}},
		[]records.FileDownload{{Downloads: 7}},
	)
	if got != (Totals{TotalDatasets: 4, TotalDownloads: 7, TotalAPICalls: 15}) {
		t.Fatalf("ComputeTotals = %+v", got)
	}
}

func TestRecentTable(t *testing.T) {
	ds := []records.Dataset{
		{Name: "A 도로", Department: "도로국", Category: "교통", ModifiedAt: records.Stamp{Text: "2024-01-01"}},
		{Name: "B Rail", Department: "철도국", Category: "교통", ModifiedAt: records.Stamp{Text: "2024-03-01"}},
		{Name: "C 주택", Department: "주택국", Category: "주택", ModifiedAt: records.Stamp{Text: "2024-02-01"}},
		{Name: "D 미정", Department: "기획국", Category: "교통"},
		{Name: "E 항공", Department: "항공국", Category: "교통", ModifiedAt: records.Stamp{Text: "2023-12-31"}},
	}

	got := RecentTable(ds, TableQuery{Category: AllLabelKo, Limit: 3})
	if names(got) != "B Rail|C 주택|A 도로" {
		t.Fatalf("all/limit = %s", names(got))
	}

	got = RecentTable(ds, TableQuery{Category: "교통"})
	if names(got) != "B Rail|A 도로|E 항공|D 미정" {
		t.Fatalf("category filter = %s", names(got))
	}

	// search runs after the top-N cut, so E is not found once it falls outside
	got = RecentTable(ds, TableQuery{Category: AllLabel, Search: "항공", Limit: 3})
	if len(got) != 0 {
		t.Fatalf("search should apply after the cut, got %s", names(got))
	}
	got = RecentTable(ds, TableQuery{Search: "rail"})
	if names(got) != "B Rail" {
		t.Fatalf("case-insensitive search = %s", names(got))
	}
	got = RecentTable(ds, TableQuery{Search: "철도"})
	if names(got) != "B Rail" {
		t.Fatalf("department search = %s", names(got))
	}
}

func TestRow(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	r := Row(records.Dataset{Name: "x", NextRegistration: records.Stamp{Text: "2024-06-25"}}, today)
	if r.Status != refresh.Completed || r.DueInDays == nil || *r.DueInDays != 10 {
		t.Fatalf("Row = %+v", r)
	}
	r = Row(records.Dataset{NextRegistration: records.Stamp{Text: "2024-06-01"}}, today)
	if r.Status != refresh.Required || r.DueInDays != nil {
		t.Fatalf("overdue Row = %+v", r)
	}
}

func names(ds []records.Dataset) string {
	s := ""
	for i, d := range ds {
		if i > 0 {
			s += "|"
		}
		s += d.Name
	}
	return s
}
