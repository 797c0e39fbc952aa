// Package domain holds the dashboard read models and the ports that serve them
package domain

import (
	"opendash/internal/core/refresh"
	"opendash/internal/core/stats"
)

// Source names one backend table snapshot, it doubles as the cache key
type Source string

// Backend snapshots the dashboard reads
const (
	SourceOpenData     Source = "openData"
	SourceAPICall      Source = "api_call"
	SourceFileDownload Source = "files_download"
	SourceMonthly      Source = "monthly_stats"
)

// Sources lists every snapshot in fetch order
func Sources() []Source {
	return []Source{SourceOpenData, SourceAPICall, SourceFileDownload, SourceMonthly}
}

// Meta rides along every view
// Degraded names the sources whose fetch failed, the view was computed without them
type Meta struct {
	AsOf     string   `json:"asOf"     example:"2024-06-15"`
	Degraded []Source `json:"degraded,omitempty"`
}

// FormattedTotals are the headline numbers rendered for display
type FormattedTotals struct {
	TotalDatasets  string `json:"totalDatasets"  example:"3,247"`
	TotalDownloads string `json:"totalDownloads" example:"187.4K"`
	TotalAPICalls  string `json:"totalApiCalls"  example:"3.2M"`
}

// LatestMonth is the newest monthly rollup, when one exists
type LatestMonth struct {
	Period           string `json:"period" example:"2024-05"`
	TotalDatasets    int64  `json:"totalDatasets"`
	NationalDatasets int64  `json:"nationalDatasets"`
	Downloads        int64  `json:"downloads"`
	APICalls         int64  `json:"apiCalls"`
}

// OverviewResp is the stats card strip
type OverviewResp struct {
	Totals         stats.Totals    `json:"totals"`
	Formatted      FormattedTotals `json:"formatted"`
	RegistryStatus refresh.Summary `json:"registryStatus"`
	APIStatus      refresh.Summary `json:"apiStatus"`
	Latest         *LatestMonth    `json:"latest,omitempty"`
	Meta
}

// CategoriesResp carries the category table and the chart subset
type CategoriesResp struct {
	Categories []stats.CategoryStat `json:"categories"`
	Chart      []stats.CategoryStat `json:"chart"`
	Meta
}

// TrendsInput selects the yearly view or, with Year, the monthly drill-down
type TrendsInput struct {
	Year int `query:"year" json:"year" validate:"omitempty,min=2020,max=2024"`
}

// Trend modes
const (
	ModeYearly  = "yearly"
	ModeMonthly = "monthly"
)

// TrendsResp holds Yearly in yearly mode and Monthly in monthly mode
// a drill-down into a year without rollups still carries monthly: []
type TrendsResp struct {
	Mode     string                   `json:"mode" example:"yearly"`
	Yearly   []stats.YearlyTrendPoint `json:"yearly,omitempty"`
	Monthly  []stats.MonthlyPoint     `json:"monthly"`
	Year     int                      `json:"year,omitempty"`
	Unplaced int                      `json:"unplaced"`
	Meta
}

// DownloadRecordsResp is the records per year chart
type DownloadRecordsResp struct {
	Years []stats.YearCount `json:"years"`
	Meta
}

// Ranking kinds
const (
	KindAPI  = "api"
	KindFile = "file"
)

// RankingsInput picks which telemetry to rank
type RankingsInput struct {
	Kind string `query:"kind" json:"kind" validate:"omitempty,oneof=api file"`
}

// RankingsResp is one top-N list
type RankingsResp struct {
	Kind    string              `json:"kind" example:"api"`
	Entries []stats.RankedEntry `json:"entries"`
	Meta
}

// DatasetsInput narrows the recent datasets table
type DatasetsInput struct {
	Category string `query:"category" json:"category" validate:"max=100"`
	Q        string `query:"q"        json:"q"        validate:"max=100"`
}

// DatasetsResp is the recent datasets table
type DatasetsResp struct {
	Rows     []stats.TableRow `json:"rows"`
	Category string           `json:"category"`
	Query    string           `json:"q,omitempty"`
	Meta
}

// TopUtilization holds both ranking lists for the export bundle
type TopUtilization struct {
	API  []stats.RankedEntry `json:"api"`
	File []stats.RankedEntry `json:"file"`
}

// SnapshotResp is the export data bundle
type SnapshotResp struct {
	Stats          stats.Totals             `json:"stats"`
	CategoryData   []stats.CategoryStat     `json:"categoryData"`
	YearlyTrend    []stats.YearlyTrendPoint `json:"yearlyTrend"`
	TableData      []stats.TableRow         `json:"tableData"`
	TopUtilization TopUtilization           `json:"topUtilization"`
	Meta
}

// PurgeResp reports how many cached snapshots were dropped
type PurgeResp struct {
	Purged int `json:"purged" example:"4"`
}
