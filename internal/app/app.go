package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/qasimqz1/ecommerce/pkg/database"
	"github.com/qasimqz1/ecommerce/pkg/health"
	pkgkafka "github.com/qasimqz1/ecommerce/pkg/kafka"
	"github.com/qasimqz1/ecommerce/pkg/middleware"
	"github.com/qasimqz1/ecommerce/pkg/tracing"

	"github.com/qasimqz1/ecommerce/internal/auth"
	"github.com/qasimqz1/ecommerce/internal/catalog"
	"github.com/qasimqz1/ecommerce/internal/config"
	"github.com/qasimqz1/ecommerce/internal/display"
	"github.com/qasimqz1/ecommerce/internal/event"
	handler "github.com/qasimqz1/ecommerce/internal/handler/http"
	"github.com/qasimqz1/ecommerce/internal/store"
	"github.com/qasimqz1/ecommerce/internal/store/memory"
	redisstore "github.com/qasimqz1/ecommerce/internal/store/redis"
	"github.com/qasimqz1/ecommerce/internal/storefront"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	manager        *storefront.Manager
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	traceCfg := tracing.DefaultConfig(handler.ServiceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.SampleRate = cfg.OTELSampleRate
	traceCfg.Enabled = cfg.OTELEnabled
	if cfg.OTELEndpoint != "" {
		traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	}
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}
	healthHandler := health.NewHandler()

	// Profile storage.
	var backing store.Store
	switch cfg.StoreBackend {
	case config.StoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		hook := database.NewTracingHook(cfg.RedisAddr, cfg.SlowCommandThreshold(), logger)
		rdb, err := database.NewRedisClient(ctx, redisCfg, hook)
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, handler.ServiceName); err != nil {
			logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}
		healthHandler.RegisterCritical("redis", database.RedisCheck(rdb))

		a.rdb = rdb
		backing = redisstore.NewStore(rdb, cfg.StoreTTL())
	default:
		logger.Warn("using in-memory profile store; data is lost on restart")
		backing = memory.NewStore()
	}

	// Catalog and fragment templates.
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	templates, err := display.ParseTemplates()
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	logger.Info("catalog loaded",
		slog.Int("products", cat.Len()),
		slog.Any("categories", cat.Categories()),
	)

	// Storefront events.
	var publisher event.Publisher = event.Noop{}
	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	gate := auth.NewGate(backing, logger)
	a.manager = storefront.NewManager(backing, cat, gate, publisher,
		func() display.Renderer { return display.NewHTMLRenderer(templates) },
		logger,
		storefront.WithIdleTTL(cfg.SessionIdleTTL()),
	)

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment
	router := handler.NewRouter(a.manager, gate, healthHandler, logger, handler.RouterConfig{
		CORS:       cors,
		PprofCIDRs: cfg.PprofAllowedCIDRs,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and the idle session sweeper and blocks until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.manager.Run(sweepCtx)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	a.closeClients()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete",
		slog.Int("open_sessions", a.manager.Len()),
	)
	return nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *App) closeClients() {
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
}

// cleanup releases what NewApp acquired before a later step failed.
func (a *App) cleanup() {
	a.closeClients()
	if err := a.tracerShutdown(context.Background()); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
}
