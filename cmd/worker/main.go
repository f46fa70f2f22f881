// Package main runs the event worker: it pulls raw log jobs from the shared
// queue, decodes and persists them, and publishes normalized events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pumpstream/internal/ath"
	"pumpstream/internal/config"
	"pumpstream/internal/consumer"
	"pumpstream/internal/pubsub"
	"pumpstream/internal/queue"
	"pumpstream/internal/solana"
	"pumpstream/internal/stats"
	"pumpstream/internal/storage"
	chstore "pumpstream/internal/storage/clickhouse"
	"pumpstream/internal/storage/memory"
	"pumpstream/internal/storage/migrations"
	pgstore "pumpstream/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr(), err)
	}

	var tokens storage.TokenStore
	var athStore storage.ATHStore
	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		tokens = pgstore.NewTokenStore(pool)
		athStore = pgstore.NewATHStore(pool)
		logger.Info("using postgres storage")
	} else {
		tokens = memory.NewTokenStore()
		athStore = memory.NewATHStore()
		logger.Warn("POSTGRES_DSN not set, using in-memory storage")
	}

	var archive storage.EventArchive
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		archive = chstore.NewEventArchive(conn)
		logger.Info("clickhouse archive enabled")
	}

	publisher := pubsub.NewRedisPublisher(rdb)
	tracker := ath.NewTracker(athStore, publisher, cfg.SolUsdRate, logger)

	aggregator := stats.NewAggregator(stats.AggregatorOptions{
		Counters:  stats.NewRedisCounters(rdb),
		Tokens:    tokens,
		Publisher: publisher,
		Logger:    logger,
	})

	rpc := solana.NewHTTPClient(cfg.SolanaRPCURL,
		solana.WithTimeout(15*time.Second),
		// The consumer owns the retry policy for rate limits.
		solana.WithMaxRetries(0),
	)

	cons := consumer.New(consumer.Options{
		ProgramID: cfg.ProgramID,
		RPC:       rpc,
		Tokens:    tokens,
		ATH:       athStore,
		Archive:   archive,
		Tracker:   tracker,
		Stats:     aggregator,
		Publisher: publisher,
		Logger:    logger,
	})

	pool := queue.NewPool(queue.PoolOptions{
		Source:        queue.NewRedisSource(rdb, ""),
		Processor:     cons,
		Concurrency:   cfg.WorkerConcurrency,
		RatePerSecond: cfg.WorkerRateLimit,
		Logger:        logger,
	})

	go aggregator.Run(ctx)

	logger.Info("worker started",
		zap.String("program_id", cfg.ProgramID),
		zap.Int("concurrency", cfg.WorkerConcurrency),
		zap.Int("rate_limit", cfg.WorkerRateLimit))

	pool.Run(ctx)

	logger.Info("worker stopped")
	return nil
}
