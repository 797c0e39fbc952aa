// Command opendash-seed loads csv exports of the dashboard tables into postgres
//
//	opendash-seed -dir ./exports -tables openData,api_call -truncate -ch
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"opendash/internal/modkit"
	"opendash/internal/modkit/module"
	"opendash/internal/platform/config"
	"opendash/internal/platform/logger"
	"opendash/internal/platform/store"
	"opendash/internal/services/seed/domain"
	seedmod "opendash/internal/services/seed/module"
)

func main() {
	if _, err := config.LoadDotenv(); err != nil {
		fmt.Fprintln(os.Stderr, "dotenv:", err)
	}
	logger.Init(logger.FromEnv())
	l := logger.Named("seed")

	root := config.New()
	opts, err := seedmod.FromConfig(root)
	if err != nil {
		l.Fatal().Err(err).Msg("bad CORE_SEED_TABLES")
	}

	var tables string
	flag.StringVar(&opts.Dir, "dir", opts.Dir, "directory holding <table>.csv exports")
	flag.StringVar(&tables, "tables", "", "comma separated tables, default all of "+list(domain.Tables()))
	flag.BoolVar(&opts.Truncate, "truncate", opts.Truncate, "truncate each table before loading")
	flag.BoolVar(&opts.CH, "ch", opts.CH, "also insert monthly rollups into clickhouse")
	flag.IntVar(&opts.Chunk, "chunk", opts.Chunk, "rows per insert statement")
	flag.Parse()

	if tables != "" {
		if opts.Tables, err = domain.ParseTables(tables); err != nil {
			l.Fatal().Err(err).Msg("bad -tables")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := store.ConfigFrom(root, "opendash", "seed")
	// -ch is the explicit opt in, it only needs a DBURL
	cfg.CH.Enabled = opts.CH && cfg.CH.URL != ""
	if opts.CH && !cfg.CH.Enabled {
		l.Warn().Msg("-ch given without SERVICE_CLICKHOUSE_DBURL, rollups stay in postgres")
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Fatal().Err(err).Msg("store open failed")
	}
	defer func() { _ = st.Close(context.Background()) }()

	m := seedmod.New(modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH}, opts.Dir)
	runner := module.MustPortsOf[domain.RunnerPort](m)

	reports, err := runner.Run(ctx, opts)
	for _, r := range reports {
		fmt.Println(r)
	}
	if err != nil {
		l.Error().Err(err).Msg("seed failed")
		stop()
		_ = st.Close(context.Background())
		os.Exit(1)
	}
}

func list(ts []domain.Table) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return strings.Join(s, ",")
}
