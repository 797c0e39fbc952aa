package domain

import (
	"slices"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/net/http/bind"
)

// Intent tags the descriptor variant
type Intent string

// Descriptor intents
const (
	IntentQuery       Intent = "query"
	IntentContextOnly Intent = "context_only"
)

// Result limits
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Filters narrow a query, zero values mean no filter
type Filters struct {
	Year        int    `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
	Category    string `json:"category,omitempty" validate:"max=100"`
	Institution string `json:"institution,omitempty" validate:"max=100"`
	Limit       int    `json:"limit,omitempty" validate:"min=0"`
}

// QueryDescriptor is what the classifier is asked to fill
// context_only carries no table, query must name one
type QueryDescriptor struct {
	Intent      Intent  `json:"intent" validate:"required,oneof=query context_only"`
	Table       string  `json:"table,omitempty" validate:"required_if=Intent query,omitempty,oneof=openData api_call files_download"`
	Filters     Filters `json:"filters"`
	OrderBy     string  `json:"order_by,omitempty" validate:"max=64"`
	Description string  `json:"description,omitempty" validate:"max=500"`
}

// TableSchema is the allowlist for one queryable table
type TableSchema struct {
	Name        string
	Columns     []string
	DateColumn  string
	Institution string
	Category    string
	OrderBy     []string
}

// DefaultOrder is the first allowed sort column
func (t TableSchema) DefaultOrder() string { return t.OrderBy[0] }

// Schemas lists every table the translator may touch
var Schemas = map[string]TableSchema{
	"openData": {
		Name:        "openData",
		Columns:     []string{"ID", "목록명", "기관명", "담당부서", "분류체계", "등록일", "마지막수정일", "차기등록 예정일", "제공주기"},
		DateColumn:  "등록일",
		Institution: "기관명",
		Category:    "분류체계",
		OrderBy:     []string{"마지막수정일", "등록일", "ID"},
	},
	"api_call": {
		Name:        "api_call",
		Columns:     []string{"목록명", "등록기관", "분류체계", "통계일자", "호출건수", "에러건수"},
		DateColumn:  "통계일자",
		Institution: "등록기관",
		Category:    "분류체계",
		OrderBy:     []string{"호출건수", "통계일자"},
	},
	"files_download": {
		Name:        "files_download",
		Columns:     []string{"목록명", "등록기관", "분류체계", "통계일자", "다운로드 수"},
		DateColumn:  "통계일자",
		Institution: "등록기관",
		Category:    "분류체계",
		OrderBy:     []string{"다운로드 수", "통계일자"},
	},
}

// Validate checks the struct tags and the per-table sort allowlist
func (d QueryDescriptor) Validate() error {
	if err := bind.Validate(d); err != nil {
		return err
	}
	if d.Intent != IntentQuery || d.OrderBy == "" {
		return nil
	}
	if !slices.Contains(Schemas[d.Table].OrderBy, d.OrderBy) {
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "order_by %q is not sortable on %s", d.OrderBy, d.Table), "order_by")
	}
	return nil
}

// Limit resolves the row limit
func (d QueryDescriptor) Limit() int {
	switch {
	case d.Filters.Limit <= 0:
		return DefaultLimit
	case d.Filters.Limit > MaxLimit:
		return MaxLimit
	}
	return d.Filters.Limit
}
