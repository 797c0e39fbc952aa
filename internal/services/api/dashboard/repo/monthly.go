package repo

import (
	"context"
	"fmt"

	"opendash/internal/core/records"
	"opendash/internal/platform/logger"
)

// rollups are cast on the server so the scan types never depend on the column widths
const monthlyCHSQL = `
SELECT
	toInt64(year), toInt64(month),
	toInt64(total_datasets), toInt64(molit_datasets),
	toInt64(total_downloads), toInt64(total_api_calls),
	toInt64(updated_datasets), toInt64(outdated_datasets)
FROM monthly_stats FINAL
ORDER BY year, month`

// Monthly reads the rollups from clickhouse when wired, postgres otherwise
// a clickhouse failure falls back to postgres, the rollups are mirrored there
func (s *hybridStore) Monthly(ctx context.Context) ([]records.MonthlyAggregate, error) {
	if s.ch != nil {
		out, err := s.monthlyCH(ctx)
		if err == nil {
			return out, nil
		}
		logger.C(ctx).Warn().Err(err).Msg("clickhouse monthly read failed, using postgres")
	}
	return pages(ctx, s, records.TableMonthlyStats, monthlyPGSQL, records.Monthly)
}

func (s *hybridStore) monthlyCH(ctx context.Context) ([]records.MonthlyAggregate, error) {
	rs, err := s.ch.Query(ctx, monthlyCHSQL)
	if err != nil {
		return nil, fmt.Errorf("ch monthly: %w", err)
	}
	defer rs.Close()

	var out []records.MonthlyAggregate
	dropped := 0
	for rs.Next() {
		var y, m int64
		var a records.MonthlyAggregate
		if err := rs.Scan(&y, &m,
			&a.TotalDatasets, &a.NationalDatasets,
			&a.TotalDownloads, &a.TotalAPICalls,
			&a.UpdatedDatasets, &a.OutdatedDatasets,
		); err != nil {
			return nil, fmt.Errorf("ch monthly scan: %w", err)
		}
		a.Year, a.Month = int(y), int(m)
		if !a.Valid() {
			dropped++
			continue
		}
		out = append(out, a)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("ch monthly rows: %w", err)
	}
	if dropped > 0 {
		readLog(ctx).Debug().Str("table", records.TableMonthlyStats).Int("dropped_rows", dropped).Msg("malformed values coerced")
	}
	return out, nil
}
