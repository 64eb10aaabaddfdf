package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_insights/internal/adapters/http_server"
	"review_insights/internal/adapters/observability"
	redisad "review_insights/internal/adapters/redis"
	"review_insights/internal/app"
	"review_insights/internal/shared"
	mysqlrepo "review_insights/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	model, catalog, err := cfg.BuildPipeline()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pipeline configuration")
	}
	log.Info().
		Strs("categories", catalog.Categories()).
		Dur("window", cfg.Pipeline.Window).
		Msg("pipeline configured")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; serving uncached")
	}
	assembler := app.NewAssembler(app.NewNormalizer(nil), model, catalog, cfg.Pipeline.Workers)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL, assembler, cfg.Pipeline.MaxReviews)

	// http
	srv := server.New(server.DefaultTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Window: cfg.Pipeline.Window})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
