package service

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"opendash/internal/core/records"
	"opendash/internal/core/stats"
	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
	"opendash/internal/services/api/chat/domain"
)

// classifierPrompt describes the queryable tables and the descriptor shape
func classifierPrompt() string {
	var b strings.Builder
	b.WriteString("You translate questions about the Ministry of Land, Infrastructure and Transport open data portal into a query descriptor.\n\n")
	b.WriteString("TABLES:\n")
	names := make([]string, 0, len(domain.Schemas))
	for name := range domain.Schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t := domain.Schemas[name]
		fmt.Fprintf(&b, "- %s: columns %s; date column %q; institution column %q; category column %q; sortable %s\n",
			t.Name, strings.Join(t.Columns, ", "), t.DateColumn, t.Institution, t.Category, strings.Join(t.OrderBy, ", "))
	}
	fmt.Fprintf(&b, `
DESCRIPTOR (JSON, no other keys):
{"intent":"query"|"context_only","table":"<table>","filters":{"year":<2020-2024>,"category":"<text>","institution":"<text>","limit":<1-%d>},"order_by":"<sortable column>","description":"<what the query returns>"}

RULES:
- use "context_only" with no table when the question needs no specific rows
- omit filters the question does not mention
- order_by must be one of the table's sortable columns, results are sorted descending
- respond with the JSON object only
`, domain.MaxLimit)
	return b.String()
}

// parseDescriptor strictly decodes a classifier reply
// fences are tolerated, unknown keys and trailing data are not
func parseDescriptor(reply string) (domain.QueryDescriptor, error) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var d domain.QueryDescriptor
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return domain.QueryDescriptor{}, perr.JSONErrf("descriptor: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.QueryDescriptor{}, perr.JSONErrf("descriptor: trailing data")
	}
	if err := d.Validate(); err != nil {
		return domain.QueryDescriptor{}, err
	}
	return d, nil
}

// answerPrompt embeds the query result and the context block
func answerPrompt(d *domain.QueryDescriptor, result []repokit.Record, resultErr error, top []repokit.Record) string {
	var b strings.Builder
	b.WriteString("당신은 국토교통부 공공데이터포털 현황 대시보드의 전문 AI 어시스턴트입니다. 공공데이터포털에 등록된 국토교통부 개방데이터에 대한 정확한 정보만을 제공해주세요.\n\n")

	switch {
	case d == nil || d.Intent != domain.IntentQuery:
		b.WriteString("**조회 결과:** 별도 조회 없음\n\n")
	case resultErr != nil:
		fmt.Fprintf(&b, "**조회 결과 (%s):** 조회에 실패했습니다. 아래 일반 통계를 참고하세요.\n\n", d.Description)
	default:
		fmt.Fprintf(&b, "**조회 결과 (%s, %d건):**\n```json\n%s\n```\n\n", d.Description, len(result), rowsJSON(result))
	}

	if len(top) > 0 {
		fmt.Fprintf(&b, "**API 호출 TOP %d:**\n", len(top))
		for i, r := range top {
			fmt.Fprintf(&b, "%d. %s (%s) - %s건\n", i+1,
				records.Text(r[records.ColName]), records.Text(r[records.ColRegAgency]),
				stats.FormatCount(records.Count(r[records.ColCalls])))
		}
		b.WriteString("\n")
	}

	b.WriteString(`**답변 가이드라인:**
1. 위 데이터를 기반으로 정확한 통계와 수치를 제공하세요
2. 질문이 불명확할 때는 구체적인 카테고리나 데이터 유형을 물어보세요
3. 국토교통부 공공데이터에 관련된 질문에만 답변하세요
4. 데이터 활용 방법이나 API 사용법에 대해서도 안내할 수 있습니다
5. 한국어로 간결하고 명확하게 답변하되, 필요시 구체적인 수치를 제공하세요

`)
	fmt.Fprintf(&b, "질문이 대시보드 범위를 벗어나면 \"%s\"라고 안내해주세요.", domain.Refusal)
	return b.String()
}

func rowsJSON(rows []repokit.Record) string {
	if len(rows) == 0 {
		return "[]"
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	return string(out)
}
