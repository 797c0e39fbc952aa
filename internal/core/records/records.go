// Package records turns loosely typed backend rows into the typed records the aggregators consume
// Conversion is total: a malformed field becomes its zero value and never fails the row
package records

import (
	"time"
)

// External table names as they exist in the hosted backend
const (
	TableOpenData      = `openData`
	TableAPICall       = "api_call"
	TableFileDownload  = "files_download"
	TableMonthlyStats  = "monthly_stats"
	TableChatSessions  = "chat_sessions"
	TableChatMessages  = "chat_messages"
	legacyDownloadName = "files_downlload" // older exports carry the typo
)

// Column names shared by the registry and telemetry tables
const (
	ColID           = "ID"
	ColName         = "목록명"
	ColListType     = "목록타입"
	ColDepartment   = "담당부서"
	ColAgency       = "기관명"
	ColCategory     = "분류체계"
	ColRegisteredAt = "등록일"
	ColModifiedAt   = "마지막수정일"
	ColNextRegister = "차기등록 예정일"
	ColCycle        = "제공주기"
	ColRegAgency    = "등록기관"
	ColStatDate     = "통계일자"
	ColCalls        = "호출건수"
	ColErrors       = "에러건수"
	ColDownloads    = "다운로드 수"
)

// Monthly rollup columns
const (
	ColYear             = "year"
	ColMonth            = "month"
	ColTotalDatasets    = "total_datasets"
	ColNationalDatasets = "molit_datasets"
	ColTotalDownloads   = "total_downloads"
	ColTotalAPICalls    = "total_api_calls"
	ColUpdatedDatasets  = "updated_datasets"
	ColOutdatedDatasets = "outdated_datasets"
)

// Stamp keeps a date value the way the backend sent it
// Text is set for string columns, Time for native date columns; both may be empty
type Stamp struct {
	Text string
	Time time.Time
}

// IsZero reports whether the stamp carries nothing at all
func (s Stamp) IsZero() bool { return s.Text == "" && s.Time.IsZero() }

// String renders the stamp for display, preferring the raw text
func (s Stamp) String() string {
	if s.Text != "" {
		return s.Text
	}
	if s.Time.IsZero() {
		return ""
	}
	return s.Time.Format(time.DateOnly)
}

// Dataset is one registry row
type Dataset struct {
	ID               int64
	Name             string
	ListType         string
	Department       string
	Agency           string
	Category         string
	RegisteredAt     Stamp
	ModifiedAt       Stamp
	NextRegistration Stamp
	ProvideCycle     string
}

// APICall is one api call telemetry row
// NextRegistration is joined from the registry by listing name and is often empty
type APICall struct {
	ID               int64
	Name             string
	Agency           string
	Category         string
	StatDate         Stamp
	Calls            int64
	Errors           string
	NextRegistration Stamp
}

// FileDownload is one file download telemetry row
type FileDownload struct {
	ID        int64
	Name      string
	Agency    string
	Category  string
	StatDate  Stamp
	Downloads int64
}

// MonthlyAggregate is one precomputed (year, month) rollup
type MonthlyAggregate struct {
	Year             int
	Month            int
	TotalDatasets    int64
	NationalDatasets int64
	TotalDownloads   int64
	TotalAPICalls    int64
	UpdatedDatasets  int64
	OutdatedDatasets int64
}

// Valid reports whether the (year, month) key is usable
func (m MonthlyAggregate) Valid() bool { return m.Year > 0 && m.Month >= 1 && m.Month <= 12 }

// DownloadTables lists every spelling the download log table has shipped under
func DownloadTables() []string { return []string{TableFileDownload, legacyDownloadName} }

// Tally counts what a batch conversion had to coerce or leave out
type Tally struct {
	Coerced int // count cells that were not counts and became 0
	Dropped int // rows left out of the batch
}

// Empty reports whether the batch converted cleanly
func (t Tally) Empty() bool { return t.Coerced == 0 && t.Dropped == 0 }

// coercer is Count with a running tally of rejected cells
type coercer struct{ bad int }

func (c *coercer) count(v any) int64 {
	n, ok := CountOK(v)
	if !ok {
		c.bad++
	}
	return n
}

// DatasetFromRow converts one registry row
func DatasetFromRow(row map[string]any) Dataset { return datasetFrom(row, new(coercer)) }

// APICallFromRow converts one api_call row
func APICallFromRow(row map[string]any) APICall { return apiCallFrom(row, new(coercer)) }

// FileDownloadFromRow converts one files_download row
func FileDownloadFromRow(row map[string]any) FileDownload { return downloadFrom(row, new(coercer)) }

// MonthlyFromRow converts one monthly_stats row
func MonthlyFromRow(row map[string]any) MonthlyAggregate { return monthlyFrom(row, new(coercer)) }

func datasetFrom(row map[string]any, c *coercer) Dataset {
	return Dataset{
		ID:               c.count(row[ColID]),
		Name:             Text(row[ColName]),
		ListType:         Text(row[ColListType]),
		Department:       Text(row[ColDepartment]),
		Agency:           Text(row[ColAgency]),
		Category:         Text(row[ColCategory]),
		RegisteredAt:     StampOf(row[ColRegisteredAt]),
		ModifiedAt:       StampOf(row[ColModifiedAt]),
		NextRegistration: StampOf(row[ColNextRegister]),
		ProvideCycle:     Text(row[ColCycle]),
	}
}

func apiCallFrom(row map[string]any, c *coercer) APICall {
	return APICall{
		ID:               c.count(row[ColID]),
		Name:             Text(row[ColName]),
		Agency:           Text(row[ColRegAgency]),
		Category:         Text(row[ColCategory]),
		StatDate:         StampOf(row[ColStatDate]),
		Calls:            c.count(row[ColCalls]),
		Errors:           Text(row[ColErrors]),
		NextRegistration: StampOf(row[ColNextRegister]),
	}
}

func downloadFrom(row map[string]any, c *coercer) FileDownload {
	return FileDownload{
		ID:        c.count(row[ColID]),
		Name:      Text(row[ColName]),
		Agency:    Text(row[ColRegAgency]),
		Category:  Text(row[ColCategory]),
		StatDate:  StampOf(row[ColStatDate]),
		Downloads: c.count(row[ColDownloads]),
	}
}

func monthlyFrom(row map[string]any, c *coercer) MonthlyAggregate {
	return MonthlyAggregate{
		Year:             int(c.count(row[ColYear])),
		Month:            int(c.count(row[ColMonth])),
		TotalDatasets:    c.count(row[ColTotalDatasets]),
		NationalDatasets: c.count(row[ColNationalDatasets]),
		TotalDownloads:   c.count(row[ColTotalDownloads]),
		TotalAPICalls:    c.count(row[ColTotalAPICalls]),
		UpdatedDatasets:  c.count(row[ColUpdatedDatasets]),
		OutdatedDatasets: c.count(row[ColOutdatedDatasets]),
	}
}

// Datasets converts a batch of registry rows
func Datasets(rows []map[string]any) ([]Dataset, Tally) { return convert(rows, datasetFrom) }

// APICalls converts a batch of api_call rows
func APICalls(rows []map[string]any) ([]APICall, Tally) { return convert(rows, apiCallFrom) }

// FileDownloads converts a batch of files_download rows
func FileDownloads(rows []map[string]any) ([]FileDownload, Tally) {
	return convert(rows, downloadFrom)
}

// Monthly converts a batch of monthly_stats rows, dropping rows without a usable key
func Monthly(rows []map[string]any) ([]MonthlyAggregate, Tally) {
	var c coercer
	var t Tally
	out := make([]MonthlyAggregate, 0, len(rows))
	for _, r := range rows {
		m := monthlyFrom(r, &c)
		if !m.Valid() {
			t.Dropped++
			continue
		}
		out = append(out, m)
	}
	t.Coerced = c.bad
	return out, t
}

func convert[T any](rows []map[string]any, fn func(map[string]any, *coercer) T) ([]T, Tally) {
	var c coercer
	var t Tally
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			t.Dropped++
			continue
		}
		out = append(out, fn(r, &c))
	}
	t.Coerced = c.bad
	return out, t
}
