package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/auth"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := logging.New("storefront-service")
	logger.Info("Starting storefront-service", logging.Fields{"port": cfg.Server.Port})

	db, err := initDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	cartRepo := repository.NewPostgresCartRepository(db, logger)
	orderRepo := repository.NewPostgresOrderRepository(db, cfg.Checkout.CommitRetries, logger)
	catalog := repository.NewPostgresCatalogReader(db)
	orderCache := repository.NewRedisOrderCache(redisClient, cfg.Redis.CacheTTL, logger)
	checkoutGuard := repository.NewRedisCheckoutGuard(redisClient, cfg.Checkout.IdempotencyTTL)

	sessions := auth.NewRedisSessionStore(redisClient, cfg.Session.TTL)

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	// One guard instance across both services: a commit must exclude
	// every cart mutation for the same user.
	guard := service.NewUserGuard()

	cartService := service.NewCartService(cartRepo, catalog, guard)
	orderService := service.NewOrderService(
		orderRepo,
		orderCache,
		checkoutGuard,
		eventPublisher,
		guard,
		cfg,
	)

	h := handlers.NewHandlers(cartService, orderService, cfg)

	srv := server.New(h, sessions, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":                 cfg.Server.Port,
			"enable_order_events":  cfg.Features.EnableOrderEvents,
			"enable_order_caching": cfg.Features.EnableOrderCaching,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited", nil)
}

func initDatabase(cfg *config.Config, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
