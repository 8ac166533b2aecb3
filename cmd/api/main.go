package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/notify"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/server"
	"storefront-checkout/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		return err
	}

	sessionRepo, err := newSessionRepository(ctx, cfg)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	catalogService := service.NewCatalogService(productRepo, log.Named("catalog"))
	if cfg.Shop.CatalogSeedFile != "" {
		products, err := service.LoadSeedFile(cfg.Shop.CatalogSeedFile)
		if err != nil {
			return err
		}
		if err := catalogService.Seed(ctx, products); err != nil {
			return err
		}
	}

	if len(cfg.Notify.OperatorIDs) == 0 {
		log.Warn("no operators configured, order notifications go back to the buyer")
	}
	messenger := client.NewMessengerClient(&cfg.Messenger)
	dispatcher := notify.NewDispatcher(messenger, cfg.Notify.OperatorIDs, log.Named("notify"))
	queue := notify.NewQueue(dispatcher, cfg.Notify.QueueSize, log.Named("notify"))

	queueCtx, stopQueue := context.WithCancel(context.Background())
	queueDone := make(chan struct{})
	go func() {
		defer close(queueDone)
		queue.Run(queueCtx)
	}()

	cartService := service.NewCartService(cartRepo, productRepo, cfg.Shop.Currency)
	orderService := service.NewOrderService(db, cartRepo, orderRepo)
	checkoutService := service.NewCheckoutService(
		sessionRepo,
		cartService,
		orderService,
		queue,
		cfg.Shop.Currency,
		log.Named("checkout"),
	)

	srv := server.NewServer(server.Services{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Order:    orderService,
	}, cfg.HTTP, cfg.Shop, log.Named("http"))

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	serverErr := make(chan error, 1)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("signal received, starting graceful shutdown")
	case err := <-serverErr:
		log.Error("HTTP server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	// pending notifications are flushed after the last request finished
	stopQueue()
	<-queueDone

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}

func newSessionRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepository, error) {
	switch cfg.Session.Backend {
	case "", "memory":
		return repository.NewMemorySessionRepository(cfg.Session.TTL), nil
	case "redis":
		rdb, err := client.InitRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisSessionRepository(rdb, cfg.Session.TTL), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}
