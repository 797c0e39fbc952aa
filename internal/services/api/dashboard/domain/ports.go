package domain

import "context"

// ServicePort is the dashboard read surface
type ServicePort interface {
	Overview(ctx context.Context) (OverviewResp, error)
	Categories(ctx context.Context) (CategoriesResp, error)
	Trends(ctx context.Context, in TrendsInput) (TrendsResp, error)
	DownloadRecords(ctx context.Context) (DownloadRecordsResp, error)
	Rankings(ctx context.Context, in RankingsInput) (RankingsResp, error)
	Datasets(ctx context.Context, in DatasetsInput) (DatasetsResp, error)
	Snapshot(ctx context.Context) (SnapshotResp, error)
	Purge(ctx context.Context) PurgeResp
}

// CachePort lets sibling modules look at the snapshot cache
type CachePort interface {
	CacheStats() CacheStats
}

// CacheStats is the operator view of the snapshot cache
type CacheStats struct {
	Entries int      `json:"entries"`
	Fresh   int      `json:"fresh"`
	TTL     string   `json:"ttl"  example:"5m0s"`
	Keys    []string `json:"keys"`
}
