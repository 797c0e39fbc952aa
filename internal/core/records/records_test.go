package records

import (
	"encoding/json"
	"testing"
	"time"

	"golang.org/x/text/unicode/norm"
)

func TestCount(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{nil, 0},
		{int64(42), 42},
		{int32(7), 7},
		{3.9, 3},
		{float32(-2), 0},
		{"1,234", 1234},
		{" 15423 ", 15423},
		{"12.7", 12},
		{"", 0},
		{"n/a", 0},
		{"-5", 0},
		{json.Number("89234"), 89234},
		{[]byte("77"), 77},
		{true, 0},
	}
	for _, c := range cases {
		if got := Count(c.in); got != c.want {
			t.Fatalf("Count(%#v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-06-15", "20240615", "2024/06/15", "2024.06.15", "2024.06.15.", "2024-06-15T00:00:00Z", "2024-6-15"} {
		got, ok := ParseDate(Stamp{Text: in})
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %v, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "   ", NoneMarker, "-", "soon", "2024-13-40"} {
		if _, ok := ParseDate(Stamp{Text: in}); ok {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
	native := time.Date(2023, 1, 2, 9, 0, 0, 0, time.Local)
	if got, ok := ParseDate(Stamp{Time: native}); !ok || !got.Equal(native) {
		t.Fatalf("native time not preserved: %v", got)
	}
	if DateOf(Stamp{Text: NoneMarker}) != nil {
		t.Fatalf("DateOf(없음) should be nil")
	}
}

func TestStampOf(t *testing.T) {
	ts := time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
	if s := StampOf(ts); !s.Time.Equal(ts) || s.Text != "" {
		t.Fatalf("StampOf(time) = %+v", s)
	}
	if s := StampOf(20220304); s.Text != "20220304" {
		t.Fatalf("StampOf(int) = %+v", s)
	}
	if s := StampOf(nil); !s.IsZero() {
		t.Fatalf("StampOf(nil) = %+v", s)
	}
	if got := (Stamp{Time: ts}).String(); got != "2022-03-04" {
		t.Fatalf("String() = %q", got)
	}
}

func TestTextNormalizesHangul(t *testing.T) {
	decomposed := norm.NFD.String("교통")
	if decomposed == "교통" {
		t.Fatalf("fixture should be decomposed")
	}
	if got := Text("  " + decomposed + " "); got != "교통" {
		t.Fatalf("Text() = %q, want composed form", got)
	}
}

func TestFromRow(t *testing.T) {
	d := DatasetFromRow(map[string]any{
		ColID:           int64(3),
		ColName:         "국토교통부_도로명주소",
		ColCategory:     "  ",
		ColModifiedAt:   "2024-05-01",
		ColNextRegister: NoneMarker,
	})
	if d.ID != 3 || d.Name != "국토교통부_도로명주소" || d.Category != "" {
		t.Fatalf("DatasetFromRow = %+v", d)
	}
	if !Absent(d.NextRegistration) {
		t.Fatalf("next registration should be absent")
	}

	a := APICallFromRow(map[string]any{ColCalls: "2,000", ColErrors: 3, ColRegAgency: "국토교통부"})
	if a.Calls != 2000 || a.Errors != "3" || a.Agency != "국토교통부" {
		t.Fatalf("APICallFromRow = %+v", a)
	}

	f := FileDownloadFromRow(map[string]any{ColDownloads: "15", ColStatDate: "20230101"})
	if f.Downloads != 15 || f.StatDate.Text != "20230101" {
		t.Fatalf("FileDownloadFromRow = %+v", f)
	}

	ms, tally := Monthly([]map[string]any{
		{ColYear: int64(2024), ColMonth: int64(1), ColTotalDownloads: "100"},
		{ColYear: int64(2024), ColMonth: int64(13)},
		{ColYear: nil, ColMonth: int64(2)},
	})
	if len(ms) != 1 || ms[0].TotalDownloads != 100 {
		t.Fatalf("Monthly = %+v", ms)
	}
	if tally.Dropped != 2 || tally.Coerced != 0 {
		t.Fatalf("Monthly tally = %+v", tally)
	}

	if got, tally := Datasets([]map[string]any{nil, {ColID: 1}}); len(got) != 1 || tally.Dropped != 1 {
		t.Fatalf("Datasets should skip nil rows, got %d %+v", len(got), tally)
	}
}

func TestBatchTallyCoercedCounts(t *testing.T) {
	calls, tally := APICalls([]map[string]any{
		{ColID: int64(1), ColCalls: "n/a"},
		{ColID: int64(2), ColCalls: "1,200"},
		{ColID: int64(3), ColCalls: int64(-4)},
		{ColID: int64(4), ColCalls: "  "},
	})
	if len(calls) != 4 || calls[0].Calls != 0 || calls[1].Calls != 1200 || calls[2].Calls != 0 {
		t.Fatalf("APICalls = %+v", calls)
	}
	if tally.Coerced != 2 || tally.Dropped != 0 || tally.Empty() {
		t.Fatalf("tally = %+v, want 2 coerced", tally)
	}

	_, tally = FileDownloads([]map[string]any{{ColDownloads: "15"}, {ColDownloads: 3.5}})
	if !tally.Empty() {
		t.Fatalf("clean batch tally = %+v", tally)
	}

	cases := []struct {
		in any
		n  int64
		ok bool
	}{
		{nil, 0, true},
		{"", 0, true},
		{"12.9", 12, true},
		{"oops", 0, false},
		{"-3", 0, false},
		{struct{}{}, 0, false},
	}
	for _, tc := range cases {
		if n, ok := CountOK(tc.in); n != tc.n || ok != tc.ok {
			t.Fatalf("CountOK(%v) = %d %v want %d %v", tc.in, n, ok, tc.n, tc.ok)
		}
	}
}
