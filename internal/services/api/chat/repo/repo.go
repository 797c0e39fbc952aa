// Package repo runs translated queries and stores chat exchanges
package repo

import (
	"context"

	"github.com/google/uuid"

	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
	pstrings "opendash/internal/platform/strings"
	"opendash/internal/services/api/chat/domain"
)

// NewPG returns a binder producing the postgres StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] {
	return repokit.BindFunc[domain.StorageRepo](func(q repokit.Queryer) domain.StorageRepo {
		return &pgRepo{q: q}
	})
}

type pgRepo struct{ q repokit.Queryer }

// session titles are the first question, clipped
const titleRunes = 50

const (
	topAPICallsSQL = `
SELECT "목록명", "등록기관", "분류체계", "통계일자", "호출건수"
FROM api_call
ORDER BY "호출건수" DESC NULLS LAST
LIMIT $1`

	upsertSessionSQL = `
INSERT INTO chat_sessions (id, title) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET updated_at = now()`

	insertMessageSQL = `
INSERT INTO chat_messages (id, session_id, content, is_bot, message_type)
VALUES ($1, $2, $3, $4, 'text')`
)

// Run executes a built query
func (r *pgRepo) Run(ctx context.Context, q domain.Query) ([]repokit.Record, error) {
	rows, err := repokit.Maps(ctx, r.q, q.SQL, q.Args...)
	if err != nil {
		return nil, perr.FromPostgresf(err, "chat query")
	}
	return rows, nil
}

// TopAPICalls reads the n most called api rows
func (r *pgRepo) TopAPICalls(ctx context.Context, n int) ([]repokit.Record, error) {
	rows, err := repokit.Maps(ctx, r.q, topAPICallsSQL, n)
	if err != nil {
		return nil, perr.FromPostgresf(err, "chat context")
	}
	return rows, nil
}

// SaveExchange upserts the session and appends the question and the answer
func (r *pgRepo) SaveExchange(ctx context.Context, ex domain.Exchange) error {
	sid, err := uuid.Parse(ex.SessionID)
	if err != nil {
		return perr.InvalidArgf("session id %q: %v", ex.SessionID, err)
	}
	if _, err := r.q.Exec(ctx, upsertSessionSQL, sid, pstrings.Clip(ex.Question, titleRunes)); err != nil {
		return perr.FromPostgresf(err, "chat session upsert")
	}
	for _, m := range []struct {
		content string
		bot     bool
	}{{ex.Question, false}, {ex.Answer, true}} {
		if _, err := r.q.Exec(ctx, insertMessageSQL, uuid.New(), sid, m.content, m.bot); err != nil {
			return perr.FromPostgresf(err, "chat message insert")
		}
	}
	return nil
}
