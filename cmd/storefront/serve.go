package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/cart"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/config"
	delivery "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/delivery/http"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging/kafka"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging/pubsub"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/pricing"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/postgres"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/redis"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/session"
)

func serve(ctx context.Context, cfg config.Config, seedCatalog bool) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	products := postgres.NewProductRepository(db)
	if seedCatalog {
		if err := products.Seed(ctx, sampleProducts()); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}

	// --- Redis ---
	redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// --- Event bus ---
	publisher, subscriber, err := newEventBus(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// --- Services ---
	carts := redis.NewCartRepository(redisClient, cfg.Redis.CartTTL)
	favorites := postgres.NewFavoritesRepository(db)
	orders := postgres.NewOrderRepository(db)
	sessions := session.NewRegistry()
	reconciler := cart.NewReconciler()

	catalogSvc := service.NewCatalogService(products, pricing.Resolver{})
	cartSvc := service.NewCartService(catalogSvc, sessions, carts, favorites, reconciler, publisher)
	orderSvc := service.NewOrderService(products, orders, sessions, carts, favorites, reconciler, publisher)

	// --- HTTP API ---
	handler := delivery.NewHandler(catalogSvc, cartSvc, orderSvc, delivery.EnglishLabels, cfg.Formatter())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           delivery.EnableCORS(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Consumer: orders.commands -> orders table
	go subscriber.Consume(ctx, messaging.TopicOrderCommands, "storefront-orders", orderSvc.HandlePlaceOrder)

	go func() {
		slog.Info("HTTP server starting", "addr", cfg.HTTPAddr, "event_bus", cfg.EventBus.Kind)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return httpServer.Shutdown(shutdownCtx)
}

func newEventBus(cfg config.Config) (messaging.Publisher, messaging.Subscriber, error) {
	switch cfg.EventBus.Kind {
	case config.BusMemory:
		bus := pubsub.NewChannelBus(slog.Default(), false)
		return bus, bus, nil
	case config.BusSarama:
		bus, err := pubsub.NewKafkaBus(cfg.EventBus.Brokers, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		return bus, bus, nil
	default:
		pub, sub := kafka.NewKafkaBroker(cfg.EventBus.Brokers)
		return pub, sub, nil
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := postgres.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("Database schema is up to date")
	return nil
}

func seed(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	products := sampleProducts()
	if err := postgres.NewProductRepository(db).Seed(ctx, products); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	slog.Info("Seeded products", "count", len(products))
	return nil
}
