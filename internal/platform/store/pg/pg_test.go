package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"opendash/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dsn = "postgres://u:p@localhost:5432/opendash?sslmode=disable"

func TestOpenBadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}); err == nil {
		t.Fatal("want parse error")
	}
}

func TestOpenConnectError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &connect, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("refused")
	})
	if _, err := Open(context.Background(), Config{URL: dsn}); err == nil {
		t.Fatal("want connect error")
	}
}

func TestOpenAppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	pool := &pgxpool.Pool{} // zero pool, never closed
	testkit.Swap(t, &connect, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return pool, nil
	})

	tr := Tracer(testLogger())
	p, err := Open(context.Background(),
		Config{URL: dsn, MaxConns: 7, SlowMs: 250, AppName: "opendash-api", Tracer: tr},
		func(pc *pgxpool.Config) { pc.MaxConnIdleTime = time.Minute },
	)
	if err != nil {
		t.Fatal(err)
	}
	if seen.MaxConns != 7 || seen.MaxConnIdleTime != time.Minute {
		t.Fatalf("pool config = %d %v", seen.MaxConns, seen.MaxConnIdleTime)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "opendash-api" {
		t.Fatalf("application_name = %q", got)
	}
	if p.Pool != pool || p.SlowMs != 250 || p.Tracer != tr {
		t.Fatalf("PG = %+v", p)
	}
}

func TestCloseNil(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
