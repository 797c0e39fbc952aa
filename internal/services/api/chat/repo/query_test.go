package repo

import (
	"reflect"
	"strings"
	"testing"

	"opendash/internal/services/api/chat/domain"
)

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		name     string
		in       domain.QueryDescriptor
		wantSQL  []string
		wantArgs []any
	}{
		{
			name: "year institution category and limit",
			in: domain.QueryDescriptor{
				Intent:  domain.IntentQuery,
				Table:   "api_call",
				Filters: domain.Filters{Year: 2023, Institution: "한국도로공사", Category: "교통", Limit: 5},
				OrderBy: "호출건수",
			},
			wantSQL: []string{
				`FROM "api_call" WHERE`,
				`"통계일자" >= $1 AND "통계일자" < $2`,
				`"등록기관" ILIKE $3`,
				`"분류체계" ILIKE $4`,
				`ORDER BY "호출건수" DESC NULLS LAST LIMIT $5`,
			},
			wantArgs: []any{"2023-01-01", "2024-01-01", "%한국도로공사%", "%교통%", 5},
		},
		{
			name:     "defaults",
			in:       domain.QueryDescriptor{Intent: domain.IntentQuery, Table: "files_download"},
			wantSQL:  []string{`SELECT "목록명", "등록기관", "분류체계", "통계일자", "다운로드 수" FROM "files_download" ORDER BY "다운로드 수" DESC NULLS LAST LIMIT $1`},
			wantArgs: []any{domain.DefaultLimit},
		},
		{
			name:     "limit clamps and like is escaped",
			in:       domain.QueryDescriptor{Intent: domain.IntentQuery, Table: "openData", Filters: domain.Filters{Institution: "100%_", Limit: 500}},
			wantSQL:  []string{`"기관명" ILIKE $1`, `ORDER BY "마지막수정일" DESC`},
			wantArgs: []any{`%100\%\_%`, domain.MaxLimit},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := BuildQuery(tc.in)
			if err != nil {
				t.Fatalf("BuildQuery err = %v", err)
			}
			for _, frag := range tc.wantSQL {
				if !strings.Contains(q.SQL, frag) {
					t.Fatalf("sql %q\nmissing %q", q.SQL, frag)
				}
			}
			if !reflect.DeepEqual(q.Args, tc.wantArgs) {
				t.Fatalf("args got %#v want %#v", q.Args, tc.wantArgs)
			}
		})
	}
}

func TestBuildQueryRejects(t *testing.T) {
	for _, d := range []domain.QueryDescriptor{
		{Intent: domain.IntentContextOnly},
		{Intent: domain.IntentQuery, Table: "pg_user"},
	} {
		if _, err := BuildQuery(d); err == nil {
			t.Fatalf("BuildQuery(%+v) should fail", d)
		}
	}
}
