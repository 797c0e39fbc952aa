package service

import (
	"context"
	"fmt"
	"strings"

	"opendash/internal/core/records"
	"opendash/internal/core/refresh"
	"opendash/internal/core/stats"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/dashboard/domain"
)

func (s *Service) registry(sn *snapshot) []records.Dataset {
	return stats.FilterByNamePrefix(sn.datasets, s.Cfg.NamePrefixes)
}

func (s *Service) topN() int {
	if s.Cfg.TopN > 0 {
		return s.Cfg.TopN
	}
	return stats.TopN
}

// Overview returns the headline totals and both refresh summaries
func (s *Service) Overview(ctx context.Context) (domain.OverviewResp, error) {
	sn, err := s.load(ctx, domain.Sources()...)
	if err != nil {
		return domain.OverviewResp{}, err
	}
	ds := s.registry(sn)
	today := s.today()

	totals := stats.ComputeTotals(ds, sn.api, sn.downloads)
	out := domain.OverviewResp{
		Totals: totals,
		Formatted: domain.FormattedTotals{
			TotalDatasets:  stats.FormatCount(int64(totals.TotalDatasets)),
			TotalDownloads: stats.FormatMagnitude(totals.TotalDownloads),
			TotalAPICalls:  stats.FormatMagnitude(totals.TotalAPICalls),
		},
		RegistryStatus: refresh.Summarize2(ds, today),
		APIStatus:      refresh.Summarize3(sn.api, today),
		Meta:           s.meta(sn),
	}
	if m, ok := stats.LatestMonth(sn.monthly); ok {
		out.Latest = &domain.LatestMonth{
			Period:           fmt.Sprintf("%d-%02d", m.Year, m.Month),
			TotalDatasets:    m.TotalDatasets,
			NationalDatasets: m.NationalDatasets,
			Downloads:        m.TotalDownloads,
			APICalls:         m.TotalAPICalls,
		}
	}
	return out, nil
}

// Categories returns the category table and the chart subset
func (s *Service) Categories(ctx context.Context) (domain.CategoriesResp, error) {
	sn, err := s.load(ctx, domain.SourceOpenData)
	if err != nil {
		return domain.CategoriesResp{}, err
	}
	cats := stats.Categories(s.registry(sn))
	return domain.CategoriesResp{
		Categories: cats,
		Chart:      stats.ChartCategories(cats, stats.ChartSize),
		Meta:       s.meta(sn),
	}, nil
}

// Trends returns the yearly chart, or the months of in.Year when it is set
func (s *Service) Trends(ctx context.Context, in domain.TrendsInput) (domain.TrendsResp, error) {
	if in.Year != 0 {
		sn, err := s.load(ctx, domain.SourceMonthly)
		if err != nil {
			return domain.TrendsResp{}, err
		}
		return domain.TrendsResp{
			Mode:    domain.ModeMonthly,
			Year:    in.Year,
			Monthly: stats.MonthlyDrilldown(sn.monthly, in.Year),
			Meta:    s.meta(sn),
		}, nil
	}

	sn, err := s.load(ctx, domain.SourceMonthly, domain.SourceAPICall, domain.SourceFileDownload)
	if err != nil {
		return domain.TrendsResp{}, err
	}
	unplaced := stats.Unplaced(sn.api, sn.downloads)
	if unplaced > 0 {
		logger.C(ctx).Debug().Int("unplaced", unplaced).Msg("telemetry rows outside the chart years")
	}
	return domain.TrendsResp{
		Mode:     domain.ModeYearly,
		Yearly:   stats.Yearly(sn.monthly, sn.api, sn.downloads),
		Unplaced: unplaced,
		Meta:     s.meta(sn),
	}, nil
}

// DownloadRecords counts download log rows per chart year
func (s *Service) DownloadRecords(ctx context.Context) (domain.DownloadRecordsResp, error) {
	sn, err := s.load(ctx, domain.SourceFileDownload)
	if err != nil {
		return domain.DownloadRecordsResp{}, err
	}
	return domain.DownloadRecordsResp{
		Years: stats.YearlyRecordCounts(sn.downloads),
		Meta:  s.meta(sn),
	}, nil
}

// Rankings returns the top entries by api calls or by downloads
func (s *Service) Rankings(ctx context.Context, in domain.RankingsInput) (domain.RankingsResp, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = domain.KindAPI
	}
	if kind == domain.KindFile {
		sn, err := s.load(ctx, domain.SourceFileDownload)
		if err != nil {
			return domain.RankingsResp{}, err
		}
		return domain.RankingsResp{
			Kind:    kind,
			Entries: stats.Rank(stats.DownloadEntries(sn.downloads), s.topN()),
			Meta:    s.meta(sn),
		}, nil
	}
	sn, err := s.load(ctx, domain.SourceAPICall)
	if err != nil {
		return domain.RankingsResp{}, err
	}
	return domain.RankingsResp{
		Kind:    domain.KindAPI,
		Entries: stats.Rank(stats.APIEntries(sn.api), s.topN()),
		Meta:    s.meta(sn),
	}, nil
}

// Datasets returns the recently modified table after category filter and search
func (s *Service) Datasets(ctx context.Context, in domain.DatasetsInput) (domain.DatasetsResp, error) {
	sn, err := s.load(ctx, domain.SourceOpenData)
	if err != nil {
		return domain.DatasetsResp{}, err
	}
	cat := strings.TrimSpace(in.Category)
	if cat == "" {
		cat = stats.AllLabel
	}
	rows := stats.RecentTable(s.registry(sn), stats.TableQuery{
		Category: cat,
		Search:   in.Q,
		Limit:    s.Cfg.TableLimit,
	})
	return domain.DatasetsResp{
		Rows:     stats.Rows(rows, s.today()),
		Category: cat,
		Query:    strings.TrimSpace(in.Q),
		Meta:     s.meta(sn),
	}, nil
}

// Snapshot assembles the export bundle from one consistent load
func (s *Service) Snapshot(ctx context.Context) (domain.SnapshotResp, error) {
	sn, err := s.load(ctx, domain.Sources()...)
	if err != nil {
		return domain.SnapshotResp{}, err
	}
	ds := s.registry(sn)
	n := s.topN()
	table := stats.RecentTable(ds, stats.TableQuery{Category: stats.AllLabel, Limit: s.Cfg.TableLimit})
	return domain.SnapshotResp{
		Stats:        stats.ComputeTotals(ds, sn.api, sn.downloads),
		CategoryData: stats.Categories(ds),
		YearlyTrend:  stats.Yearly(sn.monthly, sn.api, sn.downloads),
		TableData:    stats.Rows(table, s.today()),
		TopUtilization: domain.TopUtilization{
			API:  stats.Rank(stats.APIEntries(sn.api), n),
			File: stats.Rank(stats.DownloadEntries(sn.downloads), n),
		},
		Meta: s.meta(sn),
	}, nil
}
