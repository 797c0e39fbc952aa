package stats

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"opendash/internal/core/records"
	"opendash/internal/core/refresh"
)

// AllLabelKo is the category filter value the Korean UI sends for "no filter"
const AllLabelKo = "전체"

// TableLimit is how many recent datasets the table shows
const TableLimit = 10

// TableQuery narrows the recent dataset table
type TableQuery struct {
	Category string
	Search   string
	Limit    int
}

// TableRow is one dataset table line, keyed like the export sheet
type TableRow struct {
	Name         string         `json:"목록명"`
	Department   string         `json:"담당부서"`
	ListType     string         `json:"목록타입"`
	Category     string         `json:"분류체계"`
	RegisteredAt string         `json:"등록일"`
	ModifiedAt   string         `json:"마지막수정일"`
	Status       refresh.Status `json:"status,omitempty"`
	DueInDays    *int           `json:"dueInDays,omitempty"`
}

// RecentTable filters by category, keeps the most recently modified Limit rows,
// then applies the search over name and department
func RecentTable(ds []records.Dataset, q TableQuery) []records.Dataset {
	limit := q.Limit
	if limit <= 0 {
		limit = TableLimit
	}
	cat := strings.TrimSpace(q.Category)
	all := cat == "" || cat == AllLabel || cat == AllLabelKo

	type dated struct {
		d  records.Dataset
		at time.Time
		ok bool
	}
	rows := make([]dated, 0, len(ds))
	for _, d := range ds {
		if !all && CategoryOf(d) != cat {
			continue
		}
		at, ok := records.ParseDate(d.ModifiedAt)
		rows = append(rows, dated{d: d, at: at, ok: ok})
	}
	slices.SortStableFunc(rows, func(a, b dated) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.at.Compare(a.at)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}

	needle := fold(strings.TrimSpace(q.Search))
	out := make([]records.Dataset, 0, len(rows))
	for _, r := range rows {
		if needle == "" ||
			strings.Contains(fold(r.d.Name), needle) ||
			strings.Contains(fold(r.d.Department), needle) {
			out = append(out, r.d)
		}
	}
	return out
}

func fold(s string) string { return cases.Fold().String(s) }

// Row renders a dataset for the table with its refresh state as of today
func Row(d records.Dataset, today time.Time) TableRow {
	next := records.DateOf(d.NextRegistration)
	row := TableRow{
		Name:         d.Name,
		Department:   d.Department,
		ListType:     d.ListType,
		Category:     d.Category,
		RegisteredAt: d.RegisteredAt.String(),
		ModifiedAt:   d.ModifiedAt.String(),
		Status:       refresh.TwoState(next, today),
	}
	if refresh.DueSoon(next, today) {
		days := refresh.DaysUntil(*next, today)
		row.DueInDays = &days
	}
	return row
}

// Rows renders a batch of datasets for the table
func Rows(ds []records.Dataset, today time.Time) []TableRow {
	out := make([]TableRow, len(ds))
	for i, d := range ds {
		out[i] = Row(d, today)
	}
	return out
}
