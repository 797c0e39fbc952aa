// Package repo reads the dashboard tables page by page
package repo

import (
	"context"
	"fmt"

	"opendash/internal/core/records"
	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
)

// StorageRepo reads whole table snapshots
type StorageRepo interface {
	OpenData(ctx context.Context) ([]records.Dataset, error)
	APICalls(ctx context.Context) ([]records.APICall, error)
	FileDownloads(ctx context.Context) ([]records.FileDownload, error)
	Monthly(ctx context.Context) ([]records.MonthlyAggregate, error)
}

// NewHybrid binds postgres reads to the call's tx and sends monthly reads to clickhouse when it is wired
func NewHybrid(ch repokit.Clickhouse, page repokit.PageSpec) repokit.Binder[StorageRepo] {
	return &hybridBinder{ch: ch, page: page}
}

type hybridBinder struct {
	ch   repokit.Clickhouse
	page repokit.PageSpec
}

// Bind binds a Queryer to produce a StorageRepo
func (b *hybridBinder) Bind(q repokit.Queryer) StorageRepo {
	return &hybridStore{pg: q, ch: b.ch, page: b.page}
}

type hybridStore struct {
	pg   repokit.Queryer
	ch   repokit.Clickhouse
	page repokit.PageSpec
}

const (
	openDataSQL = `SELECT * FROM "openData" ORDER BY "ID" LIMIT $1 OFFSET $2`

	// api_call carries no schedule of its own, it borrows the registry's by listing name
	apiCallSQL = `
SELECT a.*, o."차기등록 예정일"
FROM api_call a
LEFT JOIN LATERAL (
	SELECT d."차기등록 예정일"
	FROM "openData" d
	WHERE d."목록명" = a."목록명" AND d."차기등록 예정일" IS NOT NULL
	ORDER BY d."ID"
	LIMIT 1
) o ON true
ORDER BY a."ID"
LIMIT $1 OFFSET $2`

	fileDownloadSQL = `SELECT * FROM %s ORDER BY "ID" LIMIT $1 OFFSET $2`

	monthlyPGSQL = `SELECT * FROM monthly_stats ORDER BY year, month LIMIT $1 OFFSET $2`

	regclassSQL = `SELECT to_regclass($1) IS NOT NULL`
)

// readLog is where snapshot reads report, tests point it at a buffer
var readLog = logger.C

// pages runs sql over the page spec and converts rows at the record boundary
// malformed cells never fail the read, they are tallied and logged
func pages[T any](ctx context.Context, s *hybridStore, table, sql string, conv func([]repokit.Record) ([]T, records.Tally)) ([]T, error) {
	rows, err := repokit.Paginate(ctx, s.page, func(ctx context.Context, offset, limit int) ([]repokit.Record, error) {
		return repokit.Maps(ctx, s.pg, sql, limit, offset)
	})
	if err != nil {
		return nil, perr.FromPostgresf(err, "read %s", table)
	}
	out, tally := conv(rows)
	log := readLog(ctx)
	if !tally.Empty() {
		log.Debug().Str("table", table).
			Int("coerced_counts", tally.Coerced).
			Int("dropped_rows", tally.Dropped).
			Msg("malformed values coerced")
	}
	log.Debug().Str("table", table).Int("rows", len(rows)).Int("records", len(out)).Msg("snapshot read")
	return out, nil
}

// OpenData reads the registry
func (s *hybridStore) OpenData(ctx context.Context) ([]records.Dataset, error) {
	return pages(ctx, s, records.TableOpenData, openDataSQL, records.Datasets)
}

// APICalls reads the api call log with the joined schedule
func (s *hybridStore) APICalls(ctx context.Context) ([]records.APICall, error) {
	return pages(ctx, s, records.TableAPICall, apiCallSQL, records.APICalls)
}

// FileDownloads reads the download log under whichever spelling the backend has
func (s *hybridStore) FileDownloads(ctx context.Context) ([]records.FileDownload, error) {
	table, err := s.downloadTable(ctx)
	if err != nil {
		return nil, err
	}
	return pages(ctx, s, table, fmt.Sprintf(fileDownloadSQL, quoteIdent(table)), records.FileDownloads)
}

// downloadTable probes before reading, a failed statement would abort the surrounding tx
func (s *hybridStore) downloadTable(ctx context.Context) (string, error) {
	for _, table := range records.DownloadTables() {
		var ok bool
		if err := s.pg.QueryRow(ctx, regclassSQL, quoteIdent(table)).Scan(&ok); err != nil {
			return "", perr.FromPostgresf(err, "probe %s", table)
		}
		if ok {
			return table, nil
		}
		logger.C(ctx).Debug().Str("table", table).Msg("download table missing, trying next spelling")
	}
	return "", perr.NotFoundf("no download log table (tried %v)", records.DownloadTables())
}

func quoteIdent(table string) string { return `"` + table + `"` }
