package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/finvolv/lendingplatform/internal/merchant/application"
	"github.com/finvolv/lendingplatform/internal/merchant/infrastructure/persistence/postgres"
	"github.com/finvolv/lendingplatform/pkg/config"
	"github.com/finvolv/lendingplatform/pkg/db"
	"github.com/finvolv/lendingplatform/pkg/logger"
	"github.com/finvolv/lendingplatform/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/analytics.toml", "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "analytics: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
		WithCaller: cfg.Log.WithCaller,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close()

	repo := postgres.NewAnalyticsRepository(database.DB)
	service := application.NewAnalyticsService(repo, logger.Get())

	consumer := mq.NewConsumer(mq.Config{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	}, cfg.Kafka.Topic)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consume(gctx, consumer, service)
	})

	logger.Info(ctx, "analytics worker started",
		"topic", cfg.Kafka.Topic,
		"group_id", cfg.Kafka.GroupID)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info(context.Background(), "analytics worker stopped")
	return nil
}

// consume reads events until the context is cancelled. Malformed events are
// logged and dropped; storage errors are logged and the loop continues, so a
// transient database outage does not kill the worker.
func consume(ctx context.Context, consumer *mq.Consumer, service *application.AnalyticsService) error {
	for {
		msg, err := consumer.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			logger.Error(ctx, "failed to read analytics message", "error", err)
			continue
		}

		var event application.AnalyticsEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			logger.Warn(ctx, "dropping malformed analytics event",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
			continue
		}

		if err := service.Ingest(ctx, &event); err != nil {
			logger.Error(ctx, "failed to ingest analytics event",
				"merchant_id", event.MerchantID,
				"event_type", event.EventType,
				"error", err)
		}
	}
}
