package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"opendash/internal/adapters/catalog"
	"opendash/internal/platform/cache"
	perr "opendash/internal/platform/errors"
	"opendash/internal/services/api/catalog/domain"
	"opendash/internal/services/api/catalog/service"
)

type fakeLister struct {
	key   bool
	page  catalog.Page
	err   error
	calls atomic.Int32
	args  [2]int
}

func (f *fakeLister) List(_ context.Context, page, per int) (catalog.Page, error) {
	f.calls.Add(1)
	f.args = [2]int{page, per}
	return f.page, f.err
}
func (f *fakeLister) HasKey() bool { return f.key }
func (f *fakeLister) PerPage() int { return 1000 }

func newSvc(f *fakeLister) *service.Service {
	return service.New(f, cache.New(cache.WithRetryDelay(0)))
}

func realPage() catalog.Page {
	return catalog.Page{Data: []catalog.Item{{DatasetNm: "국토교통부_교량 현황", DatasetID: "b-1"}}, CurrentCount: 1, TotalCount: 31}
}

func TestListPassesThroughAndCaches(t *testing.T) {
	f := &fakeLister{key: true, page: realPage()}
	s := newSvc(f)
	ctx := context.Background()

	for range 3 {
		got, err := s.List(ctx, domain.ListInput{Page: 2, PerPage: 20})
		if err != nil {
			t.Fatal(err)
		}
		if got.Fallback || got.TotalCount != 31 || got.Data[0].DatasetID != "b-1" {
			t.Fatalf("List = %+v", got)
		}
	}
	if f.calls.Load() != 1 || f.args != [2]int{2, 20} {
		t.Fatalf("calls=%d args=%v", f.calls.Load(), f.args)
	}

	if _, err := s.List(ctx, domain.ListInput{}); err != nil {
		t.Fatal(err)
	}
	if f.args != [2]int{1, 1000} {
		t.Fatalf("defaults args=%v", f.args)
	}
}

func TestListFallsBack(t *testing.T) {
	cases := []struct {
		name      string
		f         *fakeLister
		wantCalls int32
	}{
		{"no key", &fakeLister{key: false, page: realPage()}, 0},
		{"empty data", &fakeLister{key: true}, 1},
		{"upstream status", &fakeLister{key: true, err: perr.Newf(perr.ErrorCodeUnknown, "catalog status 404")}, 1},
		{"transport", &fakeLister{key: true, err: perr.Unavailablef("dial tcp: refused")}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSvc(tc.f)
			got, err := s.List(context.Background(), domain.ListInput{})
			if err != nil {
				t.Fatalf("List err = %v", err)
			}
			if !got.Fallback || len(got.Data) != 8 || got.TotalCount != 8 {
				t.Fatalf("List = fallback %v with %d items", got.Fallback, len(got.Data))
			}
			if n := tc.f.calls.Load(); n != tc.wantCalls {
				t.Fatalf("calls got %d want %d", n, tc.wantCalls)
			}
			if s.Cache.Len() != 0 {
				t.Fatal("fallback listing was cached")
			}
		})
	}
}

func TestListRecoversAfterFailure(t *testing.T) {
	f := &fakeLister{key: true, err: errors.New("boom")}
	s := newSvc(f)
	if got, _ := s.List(context.Background(), domain.ListInput{}); !got.Fallback {
		t.Fatal("want fallback while failing")
	}
	f.err, f.page = nil, realPage()
	if got, _ := s.List(context.Background(), domain.ListInput{}); got.Fallback {
		t.Fatal("portal answer should replace the fallback once it recovers")
	}
}

func TestListCanceled(t *testing.T) {
	f := &fakeLister{key: true, err: errors.New("boom")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newSvc(f).List(ctx, domain.ListInput{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
