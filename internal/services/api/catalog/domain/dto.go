// Package domain holds the catalog proxy's transport types and ports
package domain

import "opendash/internal/adapters/catalog"

// ListInput pages through the portal listing
type ListInput struct {
	Page    int `query:"page" validate:"omitempty,min=1,max=10000"`
	PerPage int `query:"perPage" validate:"omitempty,min=1,max=1000"`
}

// ListResp is the portal page, Fallback marks the fixed listing
type ListResp struct {
	Data         []catalog.Item `json:"data"`
	CurrentCount int            `json:"currentCount"`
	TotalCount   int            `json:"totalCount"`
	Fallback     bool           `json:"fallback"`
}
