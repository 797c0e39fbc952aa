// @title         opendash API
// @version       1.0
// @description   Read models for the ministry open data dashboard, the catalog proxy and chat
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"opendash/internal/core/version"
	"opendash/internal/platform/config"
	"opendash/internal/platform/logger"
	phttp "opendash/internal/platform/net/http"
	"opendash/internal/platform/store"

	"opendash/internal/services/api"
)

func main() {
	envFiles, envErr := config.LoadDotenv()

	logger.Init(logger.FromEnv())
	l := logger.Named("main")
	if envErr != nil {
		l.Warn().Err(envErr).Msg("dotenv load failed")
	}
	info := version.Info()
	l.Info().Str("version", info.Version).Str("commit", info.Commit).Strs("env_files", envFiles).Msg("starting " + version.Service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	st, err := store.Open(ctx, store.ConfigFrom(root, "opendash", "api"), store.WithLogger(*logger.Named("store")))
	if err != nil {
		l.Fatal().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("store close failed")
		}
	}()

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("bye")
}
