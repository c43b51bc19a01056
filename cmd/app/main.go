package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/api"
	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/bootstrap"
	"github.com/Domenick1991/travelquote/internal/cache"
	"github.com/Domenick1991/travelquote/internal/kafka"
	"github.com/Domenick1991/travelquote/internal/observability"
	"github.com/Domenick1991/travelquote/internal/pipeline"
	"github.com/Domenick1991/travelquote/internal/repository"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := pipeline.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	opts := []quotation.QuotationServiceOption{quotation.WithLogger(logger.Named("service"))}
	checks := map[string]api.Pinger{}

	if cfg.Database.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			logger.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("migrate postgres", zap.Error(err))
		}
		opts = append(opts, quotation.WithRepository(repository.NewQuotationRepository(pool)))
		checks["postgres"] = pool
	} else {
		logger.Warn("database not configured, quotations will not be archived")
	}

	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Jobs.StatusTTL())
		defer redisCache.Close()
		opts = append(opts, quotation.WithRecentCache(redisCache))
		checks["redis"] = redisCache

		if cfg.Kafka.Enabled() {
			producer := kafka.NewProducer(cfg.Kafka.Brokers, logger.Named("kafka"))
			defer producer.Close()
			opts = append(opts, quotation.WithJobs(redisCache, producer, cfg.Kafka.RequestsTopic, cfg.Kafka.EventsTopic))
			checks["kafka"] = api.PingFunc(producer.CheckConnection)
		}
	}
	if !cfg.Redis.Enabled() || !cfg.Kafka.Enabled() {
		logger.Warn("redis or kafka not configured, async jobs disabled")
	}

	svc := quotation.NewQuotationService(generator, opts...)

	if err := bootstrap.Run(ctx, cfg, svc, checks, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
