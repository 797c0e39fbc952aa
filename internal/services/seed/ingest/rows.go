package ingest

import (
	"opendash/internal/core/records"
	pstrings "opendash/internal/platform/strings"
)

// empty cells are stored as NULL, the read side treats both the same
var text = pstrings.SQLNull

// Count decodes a count cell, thousands separators and fractions are tolerated
type Count int64

// UnmarshalCSV implements csvutil.Unmarshaler
func (c *Count) UnmarshalCSV(b []byte) error {
	*c = Count(records.Count(string(b)))
	return nil
}

type datasetRow struct {
	ID           Count  `csv:"ID"`
	Name         string `csv:"목록명"`
	ListType     string `csv:"목록타입"`
	Department   string `csv:"담당부서"`
	Agency       string `csv:"기관명"`
	Category     string `csv:"분류체계"`
	RegisteredAt string `csv:"등록일"`
	ModifiedAt   string `csv:"마지막수정일"`
	NextRegister string `csv:"차기등록 예정일"`
	Cycle        string `csv:"제공주기"`
}

func (r datasetRow) id() int64 { return int64(r.ID) }

func (r datasetRow) values(id int64) []any {
	return []any{id, text(r.Name), text(r.ListType), text(r.Department), text(r.Agency), text(r.Category),
		text(r.RegisteredAt), text(r.ModifiedAt), text(r.NextRegister), text(r.Cycle)}
}

var datasetColumns = []string{
	records.ColID, records.ColName, records.ColListType, records.ColDepartment, records.ColAgency,
	records.ColCategory, records.ColRegisteredAt, records.ColModifiedAt, records.ColNextRegister, records.ColCycle,
}

type apiCallRow struct {
	ID       Count  `csv:"ID"`
	Name     string `csv:"목록명"`
	Agency   string `csv:"등록기관"`
	Category string `csv:"분류체계"`
	StatDate string `csv:"통계일자"`
	Calls    Count  `csv:"호출건수"`
	Errors   string `csv:"에러건수"`
}

func (r apiCallRow) id() int64 { return int64(r.ID) }

func (r apiCallRow) values(id int64) []any {
	return []any{id, text(r.Name), text(r.Agency), text(r.Category), text(r.StatDate), int64(r.Calls), text(r.Errors)}
}

var apiCallColumns = []string{
	records.ColID, records.ColName, records.ColRegAgency, records.ColCategory,
	records.ColStatDate, records.ColCalls, records.ColErrors,
}

type downloadRow struct {
	ID        Count  `csv:"ID"`
	Name      string `csv:"목록명"`
	Agency    string `csv:"등록기관"`
	Category  string `csv:"분류체계"`
	StatDate  string `csv:"통계일자"`
	Downloads Count  `csv:"다운로드 수"`
}

func (r downloadRow) id() int64 { return int64(r.ID) }

func (r downloadRow) values(id int64) []any {
	return []any{id, text(r.Name), text(r.Agency), text(r.Category), text(r.StatDate), int64(r.Downloads)}
}

var downloadColumns = []string{
	records.ColID, records.ColName, records.ColRegAgency, records.ColCategory, records.ColStatDate, records.ColDownloads,
}

type monthlyRow struct {
	Year     Count `csv:"year"`
	Month    Count `csv:"month"`
	Total    Count `csv:"total_datasets"`
	National Count `csv:"molit_datasets"`
	Download Count `csv:"total_downloads"`
	Calls    Count `csv:"total_api_calls"`
	Updated  Count `csv:"updated_datasets"`
	Outdated Count `csv:"outdated_datasets"`
}

func (r monthlyRow) aggregate() records.MonthlyAggregate {
	return records.MonthlyAggregate{
		Year: int(r.Year), Month: int(r.Month),
		TotalDatasets: int64(r.Total), NationalDatasets: int64(r.National),
		TotalDownloads: int64(r.Download), TotalAPICalls: int64(r.Calls),
		UpdatedDatasets: int64(r.Updated), OutdatedDatasets: int64(r.Outdated),
	}
}

// MonthlyColumns is the column order of monthly batches and rollup rows
var MonthlyColumns = []string{
	records.ColYear, records.ColMonth, records.ColTotalDatasets, records.ColNationalDatasets,
	records.ColTotalDownloads, records.ColTotalAPICalls, records.ColUpdatedDatasets, records.ColOutdatedDatasets,
}

func monthlyValues(a records.MonthlyAggregate) []any {
	return []any{int64(a.Year), int64(a.Month), a.TotalDatasets, a.NationalDatasets,
		a.TotalDownloads, a.TotalAPICalls, a.UpdatedDatasets, a.OutdatedDatasets}
}
