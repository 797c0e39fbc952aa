package repokit

import (
	"context"

	"opendash/internal/platform/logger"
)

// Paging defaults matching the hosted backend's row cap
const (
	DefaultPageSize  = 1000
	DefaultMaxOffset = 10000
)

// PageSpec bounds a paged read
// MaxOffset is the safety ceiling: paging stops once the next offset passes it
type PageSpec struct {
	Size      int
	MaxOffset int
}

func (p PageSpec) normalized() PageSpec {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.MaxOffset <= 0 {
		p.MaxOffset = DefaultMaxOffset
	}
	return p
}

// PageFunc reads one range of rows
type PageFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Paginate reads pages until one comes back short, concatenating them
// The first error is returned as is and discards partial results
func Paginate[T any](ctx context.Context, spec PageSpec, fetch PageFunc[T]) ([]T, error) {
	spec = spec.normalized()
	var all []T
	for offset := 0; ; offset += spec.Size {
		if offset > spec.MaxOffset {
			logger.C(ctx).Warn().
				Int("offset", offset).
				Int("rows", len(all)).
				Msg("paging ceiling reached, result truncated")
			return all, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, offset, spec.Size)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < spec.Size {
			return all, nil
		}
	}
}
