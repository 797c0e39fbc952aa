package domain

import (
	"context"

	"opendash/internal/adapters/catalog"
)

// ServicePort is what the http layer calls
type ServicePort interface {
	List(ctx context.Context, in ListInput) (ListResp, error)
}

// Lister is the portal client seam
type Lister interface {
	List(ctx context.Context, page, perPage int) (catalog.Page, error)
	HasKey() bool
	PerPage() int
}
