package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Domenick1991/travelquote/config"
	"github.com/Domenick1991/travelquote/internal/cache"
	"github.com/Domenick1991/travelquote/internal/email"
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

	if !cfg.Redis.Enabled() || !cfg.Kafka.Enabled() {
		logger.Fatal("worker requires redis and kafka")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	generator, err := pipeline.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Jobs.StatusTTL())
	defer redisCache.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger.Named("kafka"))
	defer producer.Close()

	opts := []quotation.QuotationServiceOption{
		quotation.WithLogger(logger.Named("service")),
		quotation.WithJobs(redisCache, producer, cfg.Kafka.RequestsTopic, cfg.Kafka.EventsTopic),
		quotation.WithRecentCache(redisCache),
	}
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
	}
	svc := quotation.NewQuotationService(generator, opts...)

	requests := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.RequestsTopic, logger.Named("kafka"))
	defer requests.Close()
	events := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.NotifyGroupID, cfg.Kafka.EventsTopic, logger.Named("kafka"))
	defer events.Close()

	emailSender := email.NewSender(logger.Named("email"), cfg.HTTP.PublicURL)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := requests.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			return handleRequest(ctx, svc, logger, msg)
		}); err != nil {
			logger.Error("requests consumer stopped", zap.Error(err))
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		if err := events.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			event, err := kafka.DecodeEvent(msg)
			if err != nil {
				logger.Error("decode event error", zap.Error(err))
				return nil
			}
			if err := emailSender.Send(ctx, event); err != nil {
				logger.Warn("notification failed", zap.String("job_id", event.JobID), zap.Error(err))
			}
			return nil
		}); err != nil {
			logger.Error("events consumer stopped", zap.Error(err))
			stop()
		}
	}()

	logger.Info("worker started",
		zap.String("requests_topic", cfg.Kafka.RequestsTopic),
		zap.String("events_topic", cfg.Kafka.EventsTopic),
	)
	<-ctx.Done()
	logger.Info("shutting down")
	wg.Wait()
}

// handleRequest never fails the consumer loop: a store or broker error on one
// job is logged and the worker moves on to the next request.
func handleRequest(ctx context.Context, svc quotation.QuotationUseCase, logger *zap.Logger, msg kafkaGo.Message) error {
	req, err := kafka.DecodeRequest(msg)
	if err != nil {
		logger.Error("skip malformed generation request", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}
	if err := svc.ProcessJob(ctx, req); err != nil && ctx.Err() == nil {
		logger.Error("process generation request failed",
			zap.String("job_id", req.JobID),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
	return nil
}
