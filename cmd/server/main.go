package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"phonestore/internal/auth"
	profilerepo "phonestore/internal/auth/repository"
	"phonestore/internal/catalog"
	"phonestore/internal/config"
	"phonestore/internal/infrastructure/kafka"
	"phonestore/internal/infrastructure/logger"
	"phonestore/internal/infrastructure/metrics"
	"phonestore/internal/infrastructure/mysql"
	"phonestore/internal/infrastructure/payment"
	"phonestore/internal/order"
	"phonestore/internal/order/usecase"
	"phonestore/internal/phone"
	"phonestore/internal/server"
)

type eventPublisher interface {
	usecase.OrderEventPublisher
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.IsProduction())
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	readOnlyDB, err := mysql.NewConnection(ctx, cfg.Database.ReadOnly())
	if err != nil {
		zapLogger.Fatal("connecting to database with read-only credentials", zap.Error(err))
	}
	defer readOnlyDB.Close()
	zapLogger.Info("database connected")

	models, err := catalog.Load(cfg.App.CatalogPath)
	if err != nil {
		zapLogger.Fatal("loading catalog", zap.Error(err))
	}

	strategy, err := auth.NewStrategy(cfg, profilerepo.NewMySQLProfileRepository(readOnlyDB), zapLogger)
	if err != nil {
		zapLogger.Fatal("configuring admin authorization", zap.Error(err))
	}

	var publisher eventPublisher = kafka.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = kafka.NewOrderPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, zapLogger)
		zapLogger.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OrderTopic))
	}
	defer publisher.Close()

	m := metrics.New()
	gateway := payment.NewStripeGateway(cfg.Payment.SecretKey, cfg.Payment.WebhookSecret, zapLogger)

	router := server.NewRouter(server.Handlers{
		Catalog:   catalog.NewController(models, zapLogger),
		Phones:    phone.NewModule(db, cfg, zapLogger),
		Orders:    order.NewModule(db, cfg, models, gateway, publisher, m, zapLogger),
		Metrics:   m,
		AdminGate: auth.Middleware(strategy, zapLogger),
	}, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
