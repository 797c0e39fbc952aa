package repo

import (
	"fmt"
	"strconv"
	"strings"

	perr "opendash/internal/platform/errors"
	"opendash/internal/services/api/chat/domain"
)

// BuildQuery turns a validated descriptor into a bounded parameterized select
// identifiers only ever come from the table allowlist, user text only reaches args
func BuildQuery(d domain.QueryDescriptor) (domain.Query, error) {
	if d.Intent != domain.IntentQuery {
		return domain.Query{}, perr.InvalidArgf("descriptor intent %q has no query", d.Intent)
	}
	t, ok := domain.Schemas[d.Table]
	if !ok {
		return domain.Query{}, perr.InvalidArgf("table %q is not queryable", d.Table)
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c)
	}

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	// dates are stored as ISO text, a half-open range keeps Dec 31 rows that carry a time
	if y := d.Filters.Year; y > 0 {
		col := quoteIdent(t.DateColumn)
		where = append(where, fmt.Sprintf("%s >= %s AND %s < %s",
			col, arg(fmt.Sprintf("%04d-01-01", y)),
			col, arg(fmt.Sprintf("%04d-01-01", y+1))))
	}
	if s := strings.TrimSpace(d.Filters.Institution); s != "" {
		where = append(where, fmt.Sprintf("%s ILIKE %s", quoteIdent(t.Institution), arg("%"+escapeLike(s)+"%")))
	}
	if s := strings.TrimSpace(d.Filters.Category); s != "" {
		where = append(where, fmt.Sprintf("%s ILIKE %s", quoteIdent(t.Category), arg("%"+escapeLike(s)+"%")))
	}

	order := t.DefaultOrder()
	if d.OrderBy != "" {
		order = d.OrderBy
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(t.Name))
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY %s DESC NULLS LAST LIMIT %s", quoteIdent(order), arg(d.Limit()))
	return domain.Query{SQL: b.String(), Args: args}, nil
}

func quoteIdent(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
