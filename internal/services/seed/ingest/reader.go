// Package ingest decodes the csv exports of the backend tables
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/jszwec/csvutil"
	"golang.org/x/text/unicode/norm"

	"opendash/internal/core/records"
	perr "opendash/internal/platform/errors"
	"opendash/internal/services/seed/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Reader loads exports named <table>.csv from a filesystem
type Reader struct {
	fsys fs.FS
}

// NewReader returns a Reader over fsys, usually os.DirFS of the export directory
func NewReader(fsys fs.FS) *Reader { return &Reader{fsys: fsys} }

// Load decodes one table export
// a missing file surfaces as fs.ErrNotExist so callers can skip it
func (r *Reader) Load(t domain.Table) (domain.Batch, error) {
	f, err := r.fsys.Open(t.File())
	if err != nil {
		return domain.Batch{}, err
	}
	defer f.Close()

	switch t {
	case domain.OpenData:
		return load[datasetRow](f, t, datasetColumns)
	case domain.APICall:
		return load[apiCallRow](f, t, apiCallColumns)
	case domain.FileDownload:
		return load[downloadRow](f, t, downloadColumns)
	case domain.Monthly:
		rows, err := decode[monthlyRow](f)
		if err != nil {
			return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeValidation, "decode %s", t.File())
		}
		return monthlyBatch(rows), nil
	}
	return domain.Batch{}, perr.InvalidArgf("unknown table %q", t)
}

type idRow interface {
	id() int64
	values(id int64) []any
}

func load[T idRow](f io.Reader, t domain.Table, cols []string) (domain.Batch, error) {
	rows, err := decode[T](f)
	if err != nil {
		return domain.Batch{}, perr.Wrapf(err, perr.ErrorCodeValidation, "decode %s", t.File())
	}
	b := domain.Batch{Table: t, Columns: cols, Key: []string{records.ColID}}

	// explicit IDs are claimed first so a positional ID never lands on one
	taken := make(map[int64]bool, len(rows))
	next := int64(len(rows))
	for _, row := range rows {
		if id := row.id(); id > 0 {
			taken[id] = true
			next = max(next, id)
		}
	}

	// rows without an ID take their 1-based position, or the next free ID past
	// every explicit one when that position is claimed; a repeated explicit ID keeps the last row
	seen := make(map[int64]int, len(rows))
	for i, row := range rows {
		id := row.id()
		if id <= 0 {
			id = int64(i + 1)
			if taken[id] {
				next++
				id = next
			}
		}
		if j, ok := seen[id]; ok {
			b.Rows[j] = row.values(id)
			continue
		}
		seen[id] = len(b.Rows)
		b.Rows = append(b.Rows, row.values(id))
	}
	return b, nil
}

func monthlyBatch(rows []monthlyRow) domain.Batch {
	b := domain.Batch{
		Table:   domain.Monthly,
		Columns: MonthlyColumns,
		Key:     []string{records.ColYear, records.ColMonth},
	}
	seen := map[[2]int]int{}
	for _, row := range rows {
		a := row.aggregate()
		if !a.Valid() {
			continue
		}
		k := [2]int{a.Year, a.Month}
		if j, ok := seen[k]; ok {
			b.Rows[j] = monthlyValues(a)
			continue
		}
		seen[k] = len(b.Rows)
		b.Rows = append(b.Rows, monthlyValues(a))
	}
	return b
}

// decode reads a header keyed csv into T
// headers and cells are trimmed and NFC normalized, spreadsheet exports often ship decomposed Hangul
func decode[T any](r io.Reader) ([]T, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bom)); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = norm.NFC.String(strings.TrimSpace(h))
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, err
	}
	dec.Map = func(field, _ string, _ any) string {
		return norm.NFC.String(strings.TrimSpace(field))
	}

	var out []T
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return out, nil
}
