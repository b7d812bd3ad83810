package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/qdhenry/b2b-buyer-portal/internal/application/link"
	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/encoding/avro"
	kafkainfra "github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/messaging/kafka"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/persistence/postgres"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// linksync consumes the ERP order-link feed into Postgres so the portal
// api can resolve ERP order numbers without an upstream search.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zl, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := postgres.Migrate(cfg.DB.DSN()); err != nil {
		zl.Fatal("migrations failed", logger.Error(err))
	}

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zl.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	codec, err := avro.NewLinkCodec()
	if err != nil {
		zl.Fatal("avro codec init failed", logger.Error(err))
	}

	linkSvc := link.NewService(postgres.NewLinkRepository(pool), nil, zl)

	consumer := kafkainfra.NewLinkConsumer(cfg.Kafka, codec, linkSvc, zl)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("link feed consumer started",
		logger.Strings("brokers", cfg.Kafka.Brokers),
		logger.String("topic", cfg.Kafka.LinkTopic),
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("consumer stopped", logger.Error(err))
	}
	zl.Info("link feed consumer shut down")
}
