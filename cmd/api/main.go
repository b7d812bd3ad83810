package main

import (
	"log"

	"github.com/qdhenry/b2b-buyer-portal/internal/application/company"
	"github.com/qdhenry/b2b-buyer-portal/internal/application/enrichment"
	"github.com/qdhenry/b2b-buyer-portal/internal/application/invoice"
	"github.com/qdhenry/b2b-buyer-portal/internal/application/resolver"
	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/encoding/avro"
	ginserver "github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/http/gin"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/http/storefront"
	kafkainfra "github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/messaging/kafka"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/persistence/postgres"
	"github.com/qdhenry/b2b-buyer-portal/internal/interfaces/http/handler"
	"github.com/qdhenry/b2b-buyer-portal/internal/interfaces/http/router"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

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

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zl.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	linkRepo := postgres.NewLinkRepository(pool)

	codec, err := avro.NewLinkCodec()
	if err != nil {
		zl.Fatal("avro codec init failed", logger.Error(err))
	}

	producer, err := kafkainfra.NewLinkProducer(cfg.Kafka, codec, zl)
	if err != nil {
		zl.Fatal("kafka producer init failed", logger.Error(err))
	}
	defer producer.Close()

	client := storefront.NewClient(cfg.Storefront, zl)

	companies := company.NewCache(client, zl)
	enrichSvc := enrichment.NewService(client, client.BatchCeiling(), zl)
	resolveSvc := resolver.NewService(client, client, linkRepo, producer, zl)
	invoiceSvc := invoice.NewService(client, zl)

	orders := handler.NewOrderHandler(client, enrichSvc, resolveSvc, companies, zl)
	invoices := handler.NewInvoiceHandler(client, invoiceSvc, zl)

	engine := ginserver.NewEngine(zl)
	router.RegisterRoutes(engine, orders, invoices)

	server := ginserver.NewServer(cfg.Server, engine)
	zl.Info("portal api listening", logger.String("addr", cfg.Server.Address()))
	if err := server.Run(); err != nil {
		zl.Fatal("server run failed", logger.Error(err))
	}
}
