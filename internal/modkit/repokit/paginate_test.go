package repokit

import (
	"context"
	"errors"
	"testing"
)

// pager serves total rows in pages and records the offsets it was asked for
type pager struct {
	total   int
	offsets []int
	failAt  int
	err     error
}

func (p *pager) fetch(_ context.Context, offset, limit int) ([]int, error) {
	p.offsets = append(p.offsets, offset)
	if p.err != nil && offset == p.failAt {
		return nil, p.err
	}
	var out []int
	for i := offset; i < offset+limit && i < p.total; i++ {
		out = append(out, i)
	}
	return out, nil
}

func TestPaginate_StopsOnShortPage(t *testing.T) {
	t.Parallel()
	p := &pager{total: 2500}
	got, err := Paginate(context.Background(), PageSpec{Size: 1000}, p.fetch)
	if err != nil {
		t.Fatalf("Paginate err = %v", err)
	}
	if len(got) != 2500 || got[2499] != 2499 {
		t.Fatalf("len = %d, want 2500", len(got))
	}
	if len(p.offsets) != 3 || p.offsets[2] != 2000 {
		t.Fatalf("offsets = %v", p.offsets)
	}
}

func TestPaginate_ExactMultipleNeedsOneEmptyPage(t *testing.T) {
	t.Parallel()
	p := &pager{total: 2000}
	got, err := Paginate(context.Background(), PageSpec{Size: 1000}, p.fetch)
	if err != nil || len(got) != 2000 {
		t.Fatalf("got %d rows, err %v", len(got), err)
	}
	if len(p.offsets) != 3 {
		t.Fatalf("offsets = %v, want a trailing empty page", p.offsets)
	}
}

func TestPaginate_CeilingTruncates(t *testing.T) {
	t.Parallel()
	p := &pager{total: 1 << 20}
	got, err := Paginate(context.Background(), PageSpec{Size: 1000, MaxOffset: 10000}, p.fetch)
	if err != nil {
		t.Fatalf("Paginate err = %v", err)
	}
	// offsets 0..10000 inclusive are read, 11000 is past the ceiling
	if len(p.offsets) != 11 || len(got) != 11000 {
		t.Fatalf("pages = %d rows = %d", len(p.offsets), len(got))
	}
}

func TestPaginate_SurfacesErrorVerbatim(t *testing.T) {
	t.Parallel()
	boom := errors.New("relation does not exist")
	p := &pager{total: 5000, failAt: 1000, err: boom}
	got, err := Paginate(context.Background(), PageSpec{Size: 1000}, p.fetch)
	if err != boom {
		t.Fatalf("err = %v, want the fetch error itself", err)
	}
	if got != nil {
		t.Fatalf("partial rows returned: %d", len(got))
	}
}

func TestPaginate_Defaults(t *testing.T) {
	t.Parallel()
	p := &pager{total: 10}
	if _, err := Paginate(context.Background(), PageSpec{}, p.fetch); err != nil {
		t.Fatal(err)
	}
	if len(p.offsets) != 1 {
		t.Fatalf("offsets = %v", p.offsets)
	}
}

func TestPaginate_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &pager{total: 10}
	if _, err := Paginate(ctx, PageSpec{}, p.fetch); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
