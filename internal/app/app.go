// Package app wires together all dependencies and runs the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storekit/storefront/pkg/health"
	"github.com/storekit/storefront/pkg/httpclient"
	pkgkafka "github.com/storekit/storefront/pkg/kafka"
	"github.com/storekit/storefront/pkg/tracing"

	"github.com/storekit/storefront/internal/auth"
	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/config"
	"github.com/storekit/storefront/internal/event"
	handler "github.com/storekit/storefront/internal/handler/http"
	"github.com/storekit/storefront/internal/store"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	sessions        *store.Manager
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Upstream catalog client behind a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = time.Duration(cfg.CatalogTimeout) * time.Second
	baseClient := httpclient.New(httpCfg)
	cbClient := httpclient.NewCircuitBreakerClient(
		baseClient,
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogClient := catalog.NewClient(cbClient, cfg.CatalogBaseURL)

	// Optional Redis read-through cache over the catalog.
	var provider catalog.Provider = catalogClient
	var rdb *redis.Client
	if cfg.CacheEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("catalog cache enabled",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
		provider = catalog.NewCachedProvider(catalogClient, rdb, cacheTTL, logger)
	}

	// Optional Kafka producer for domain events.
	var producer *pkgkafka.Producer
	observers := store.ObserverSet{}
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

		eventProducer := event.NewProducer(producer, logger)
		observers.Cart = append(observers.Cart, eventProducer.CartObserver())
		observers.Wishlist = append(observers.Wishlist, eventProducer.WishlistObserver())
	}

	// Session manager with idle sweeping.
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := store.NewManager(sessionTTL, observers, logger)

	jwtExpiry := time.Duration(cfg.JWTExpiryMinutes) * time.Minute
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, jwtExpiry)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("catalog", catalogClient.Ping)
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Sessions:      sessions,
		Provider:      provider,
		CatalogClient: catalogClient,
		JWT:           jwtManager,
		HealthHandler: healthHandler,
		Logger:        logger,
		PprofEnabled:  cfg.PprofEnabled,
		PprofCIDRs:    cfg.PprofCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		sessions:        sessions,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and the session sweeper, blocking until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.sessions.Run(ctx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
