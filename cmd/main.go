package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/whatsou/checkout-service/docs"
	"github.com/whatsou/checkout-service/internal/app"
	"github.com/whatsou/checkout-service/internal/config"
	"github.com/whatsou/checkout-service/internal/handler"
	"github.com/whatsou/checkout-service/internal/postgres"
	"github.com/whatsou/checkout-service/internal/repo"
	"github.com/whatsou/checkout-service/internal/service"
	"github.com/whatsou/checkout-service/pkg/cache"
	"github.com/whatsou/checkout-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           WhatSou Checkout API
// @version         1.0
// @description     Документация HTTP API чекаута
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	storeRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	cache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	publisher := handler.NewOrderPublisher(conf.Kafka)
	defer publisher.Close()

	locationService := service.NewLocationService(logger, storeRepo, cache)
	checkoutService := service.NewCheckoutService(logger, storeRepo, locationService, publisher)
	orderService := service.NewOrderService(logger, txManager, storeRepo, cache)
	catalogService := service.NewCatalogService(logger, txManager, storeRepo)

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, checkoutService, locationService, catalogService, orderService)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	app.SetConsumers(kafkaHandler)
	app.SetStarters(cache, warmUpAdapter{svc: locationService})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type warmUpper interface {
	WarmUpLocations(ctx context.Context) error
}

type warmUpAdapter struct {
	svc warmUpper
}

func (a warmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpLocations(ctx)
}
