package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/mgnrega-dashboard-server/internal/api"
	"github.com/stacklok/mgnrega-dashboard-server/internal/app/storage"
	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/ingest"
	"github.com/stacklok/mgnrega-dashboard-server/internal/normalize"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

const (
	defaultHTTPAddress    = ":3000"
	defaultRequestTimeout = 30 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 45 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// DashboardAppOptions is a function that configures the dashboard app builder
type DashboardAppOptions func(*dashboardAppConfig) error

// dashboardAppConfig collects what NewDashboardApp needs. Overrides are
// primarily for testing.
type dashboardAppConfig struct {
	config *config.Config

	storageFactory storage.Factory
	source         sources.Source
	params         *sources.Params

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...DashboardAppOptions) (*dashboardAppConfig, error) {
	cfg := &dashboardAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	return cfg, nil
}

// NewDashboardApp wires storage, sync and the HTTP server from the configuration
func NewDashboardApp(ctx context.Context, opts ...DashboardAppOptions) (*DashboardApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	// Single decision point for database vs memory storage
	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			cfg.storageFactory.Cleanup()
		}
	}()

	stores, err := buildStorageComponents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage components: %w", err)
	}

	if err := EnsureReferenceData(ctx, stores.catalog); err != nil {
		return nil, fmt.Errorf("failed to initialize reference data: %w", err)
	}

	syncCoordinator, err := buildSyncComponents(cfg, stores)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}

	svcOpts := []service.Option{
		service.WithTTLs(cfg.config.Cache.GetDefaultTTL(), cfg.config.Cache.GetLongTTL()),
	}
	if cfg.tracerProvider != nil {
		svcOpts = append(svcOpts, service.WithTracer(cfg.tracerProvider.Tracer(service.TracerName)))
	}
	dashboardService := service.New(stores.catalog, stores.records, stores.cache, syncCoordinator, svcOpts...)

	httpServer, err := buildHTTPServer(cfg, dashboardService)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app
	cleanupNeeded = false

	return &DashboardApp{
		config: cfg.config,
		components: &AppComponents{
			Coordinator: syncCoordinator,
			Scheduler: coordinator.NewScheduler(syncCoordinator, cfg.config.Sync.GetInterval(),
				coordinator.WithRunOnStart(cfg.config.Sync.OnStartup)),
			Reaper:           cache.NewReaper(stores.cache, cfg.config.Cache.GetReapInterval()),
			DashboardService: dashboardService,
		},
		storageFactory: cfg.storageFactory,
		httpServer:     httpServer,
		ctx:            appCtx,
		cancelFunc:     cancel,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("invalid address %s: %w", addr, err)
		}
		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host != "" && host != "localhost" && net.ParseIP(host) == nil {
			return fmt.Errorf("address is not a valid IP address: %s", addr)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares replaces the default HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory sets a custom storage factory
func WithStorageFactory(factory storage.Factory) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.storageFactory = factory
		return nil
	}
}

// WithSource overrides the upstream source built from the data source configuration
func WithSource(source sources.Source, params sources.Params) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.source = source
		cfg.params = &params
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for metrics
func WithMeterProvider(mp metric.MeterProvider) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for spans
func WithTracerProvider(tp trace.TracerProvider) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMetricsHandler exposes h on GET /metrics
func WithMetricsHandler(h http.Handler) DashboardAppOptions {
	return func(cfg *dashboardAppConfig) error {
		cfg.metricsHandler = h
		return nil
	}
}

type storageComponents struct {
	records records.Store
	cache   cache.Store
	catalog reference.Catalog
}

func buildStorageComponents(ctx context.Context, b *dashboardAppConfig) (*storageComponents, error) {
	recordStore, err := b.storageFactory.CreateRecordStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create record store: %w", err)
	}

	cacheStore, err := b.storageFactory.CreateCacheStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	cacheMetrics, err := telemetry.NewCacheMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache metrics: %w", err)
	}

	catalog, err := b.storageFactory.CreateCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference catalog: %w", err)
	}

	return &storageComponents{
		records: recordStore,
		cache:   cache.WithMetrics(cacheStore, cacheMetrics),
		catalog: catalog,
	}, nil
}

func buildSyncComponents(b *dashboardAppConfig, stores *storageComponents) (*coordinator.Coordinator, error) {
	slog.Info("Creating sync components")

	source, params := b.source, b.params
	if source == nil {
		var p sources.Params
		var err error
		source, p, err = sources.NewFromConfig(&b.config.DataSource)
		if err != nil {
			return nil, fmt.Errorf("failed to create data source: %w", err)
		}
		params = &p
	}

	syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}
	ingestMetrics, err := telemetry.NewIngestMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest metrics: %w", err)
	}

	normalizer := normalize.New(
		normalize.WithDefaultStateCode(b.config.DataSource.GetDefaultStateCode()),
	)
	pipeline := ingest.NewPipeline(stores.records,
		ingest.WithBatchSize(b.config.Ingestion.GetBatchSize()),
		ingest.WithBatchDelay(b.config.Ingestion.GetBatchDelay()),
		ingest.WithMetrics(ingestMetrics),
	)

	manager := pkgsync.NewManager(source, *params, stores.cache, normalizer, pipeline,
		pkgsync.WithAPIResponseTTL(b.config.Cache.GetAPIResponseTTL()),
		pkgsync.WithSyncMetrics(syncMetrics),
		pkgsync.WithTracerProvider(b.tracerProvider),
	)

	return coordinator.New(manager, stores.cache,
		coordinator.WithSyncMetrics(syncMetrics),
		coordinator.WithTracerProvider(b.tracerProvider),
	), nil
}

func buildHTTPServer(b *dashboardAppConfig, svc service.DashboardService) (*http.Server, error) {
	slog.Info("Building HTTP server")

	if b.middlewares == nil {
		httpMetrics, err := telemetry.NewHTTPMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}

		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			telemetry.TracingMiddleware(b.tracerProvider),
			httpMetrics.Middleware,
			api.LoggingMiddleware,
		}
	}

	router := api.NewServer(svc,
		api.WithMiddlewares(b.middlewares...),
		api.WithMetricsHandler(b.metricsHandler),
	)

	return &http.Server{
		Addr:              b.address,
		Handler:           router,
		ReadHeaderTimeout: b.readTimeout,
		ReadTimeout:       b.readTimeout,
		WriteTimeout:      b.writeTimeout,
		IdleTimeout:       b.idleTimeout,
	}, nil
}
