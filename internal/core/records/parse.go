package records

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// NoneMarker is what the registry writes when a dataset has no next registration
const NoneMarker = "없음"

// date layouts tried in order, most common first
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"20060102",
	"2006/01/02",
	"2006.01.02",
	"2006-1-2",
	"2006.1.2",
}

// Text renders any scalar column value as a trimmed NFC string
// Hangul from spreadsheet exports often arrives decomposed, which breaks grouping
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return clean(x)
	case []byte:
		return clean(string(x))
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	case *time.Time:
		if x == nil {
			return ""
		}
		return Text(*x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return ""
		}
		return Text(dv)
	}
	return ""
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Count coerces a count column into a non-negative integer
// Numbers pass through, numeric strings are parsed with thousands separators
// stripped and fractions truncated, anything else is 0
func Count(v any) int64 {
	n, _ := CountOK(v)
	return n
}

// CountOK is Count that also reports whether v was a usable count
// nil and blank cells are fine, junk text, negatives and unknown types are not
func CountOK(v any) (int64, bool) {
	var n int64
	switch x := v.(type) {
	case nil:
		return 0, true
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int16:
		n = int64(x)
	case int8:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return math.MaxInt64, true
		}
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint:
		n = int64(x)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case json.Number:
		return countString(x.String())
	case string:
		return countString(x)
	case []byte:
		return countString(string(x))
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return 0, false
		}
		return CountOK(dv)
	default:
		return 0, false
	}
	if n < 0 {
		return 0, false
	}
	return n, true
}

func fromFloat(f float64) (int64, bool) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0) || f < 0:
		return 0, false
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	}
	return int64(f), true
}

func countString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloat(f)
	}
	return 0, false
}

// StampOf captures a date column without interpreting it
func StampOf(v any) Stamp {
	switch x := v.(type) {
	case nil:
		return Stamp{}
	case time.Time:
		return Stamp{Time: x}
	case *time.Time:
		if x == nil {
			return Stamp{}
		}
		return Stamp{Time: *x}
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return Stamp{}
		}
		return StampOf(dv)
	}
	return Stamp{Text: Text(v)}
}

// Absent reports whether a stamp means "no date", including the registry's 없음 marker
func Absent(s Stamp) bool {
	if !s.Time.IsZero() {
		return false
	}
	t := strings.TrimSpace(s.Text)
	return t == "" || t == NoneMarker || t == "-"
}

// ParseDate interprets a stamp as a calendar date
// Text dates are read in UTC; callers compare civil dates, not instants
func ParseDate(s Stamp) (time.Time, bool) {
	if !s.Time.IsZero() {
		return s.Time, true
	}
	if Absent(s) {
		return time.Time{}, false
	}
	t := strings.TrimSuffix(strings.TrimSpace(s.Text), ".")
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, t); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// DateOf is ParseDate returning a pointer, nil when the stamp is absent or unparseable
func DateOf(s Stamp) *time.Time {
	d, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &d
}
