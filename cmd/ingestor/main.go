package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_insights/internal/adapters/feed"
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

	// 1) initialize global logger (console in dev, JSON otherwise), tagged with this run
	runID := uuid.NewString()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel).With().Str("run_id", runID).Logger()

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Int("limit", cfg.ReviewLimit).
		Int("products", len(cfg.ProductIDs)).
		Msg("ingestor starting")
	if len(cfg.ProductIDs) == 0 {
		log.Fatal().Msg("INGEST_PRODUCT_IDS is empty; nothing to ingest")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	ing := app.NewIngestionService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var (
		wg      sync.WaitGroup
		stored  atomic.Int64
		failed  atomic.Int64
		started = time.Now()
	)

	for _, id := range cfg.ProductIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := ing.IngestProduct(ctx, productID, cfg.ReviewLimit)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("product", productID).Err(err).Msg("ingest failed")
				return
			}
			stored.Add(int64(n))
			log.Info().Str("product", productID).Int("reviews", n).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().
		Int64("reviews", stored.Load()).
		Int64("failed_products", failed.Load()).
		Dur("elapsed", time.Since(started)).
		Msg("ingestion completed")
}
