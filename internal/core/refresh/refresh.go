// Package refresh classifies datasets by whether their next scheduled registration has passed
package refresh

import (
	"math"
	"time"

	"opendash/internal/core/records"
)

// Status is the refresh state of one dataset
type Status string

const (
	// Completed means the next registration is today or later, or never scheduled
	Completed Status = "completed"
	// Required means the next registration date is already behind us
	Required Status = "required"
	// Unknown means no usable date in the three state scheme
	Unknown Status = "unknown"
)

// DueSoonDays is the window the dataset table flags as upcoming
const DueSoonDays = 30

// day truncates t to midnight in loc, keeping only the civil date
func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// civil maps next onto today's calendar; text dates parse as UTC so we keep their Y/M/D
func civil(next, today time.Time) (time.Time, time.Time) {
	loc := today.Location()
	return day(next, loc), day(today, loc)
}

// TwoState folds an absent date into Completed: one-time and linked datasets never go stale
func TwoState(next *time.Time, today time.Time) Status {
	if next == nil {
		return Completed
	}
	n, t := civil(*next, today)
	if n.Before(t) {
		return Required
	}
	return Completed
}

// ThreeState reports Unknown when there is no date to compare
func ThreeState(next *time.Time, today time.Time) Status {
	if next == nil {
		return Unknown
	}
	return TwoState(next, today)
}

// DaysUntil returns whole days from today to next, negative when overdue
func DaysUntil(next, today time.Time) int {
	n, t := civil(next, today)
	// both are midnights in the same zone; round to absorb DST hours
	return int(math.Round(n.Sub(t).Hours() / 24))
}

// DueSoon reports whether next falls within the upcoming window, today included
func DueSoon(next *time.Time, today time.Time) bool {
	if next == nil {
		return false
	}
	d := DaysUntil(*next, today)
	return d >= 0 && d <= DueSoonDays
}

// Summary counts records per status
type Summary struct {
	Completed int `json:"completed"`
	Required  int `json:"required"`
	Unknown   int `json:"unknown"`
	Total     int `json:"total"`
}

func (s *Summary) add(st Status) {
	s.Total++
	switch st {
	case Completed:
		s.Completed++
	case Required:
		s.Required++
	default:
		s.Unknown++
	}
}

// Summarize2 classifies registry rows with the two state rule
func Summarize2(ds []records.Dataset, today time.Time) Summary {
	var s Summary
	for _, d := range ds {
		s.add(TwoState(records.DateOf(d.NextRegistration), today))
	}
	return s
}

// Summarize3 classifies api call rows with the three state rule
func Summarize3(calls []records.APICall, today time.Time) Summary {
	var s Summary
	for _, c := range calls {
		s.add(ThreeState(records.DateOf(c.NextRegistration), today))
	}
	return s
}
