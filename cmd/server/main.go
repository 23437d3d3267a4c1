package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/vikasgargbear/production-infra-sub001/internal/application/catalog"
	financeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/finance"
	gstapp "github.com/vikasgargbear/production-infra-sub001/internal/application/gst"
	inventoryapp "github.com/vikasgargbear/production-infra-sub001/internal/application/inventory"
	partnerapp "github.com/vikasgargbear/production-infra-sub001/internal/application/partner"
	tradeapp "github.com/vikasgargbear/production-infra-sub001/internal/application/trade"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/cache"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/config"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/logger"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/persistence"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/storage"
	"github.com/vikasgargbear/production-infra-sub001/internal/infrastructure/telemetry"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/handler"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/middleware"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Pharma Distribution API
//	@version		1.0
//	@description	Orders, batch inventory, GST invoicing and customer accounts for pharmaceutical distributors

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	OrgID
//	@in							header
//	@name						X-Org-ID

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromLogConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting pharma backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Tracing, metrics and profiling. Each is a no-op when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.FromTelemetryConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerFromConfig(cfg), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	// Initialize database connection with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingFromConfig(cfg.Telemetry), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Idempotency-Key store: redis in production, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Idempotency, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Report archive for exported GST summaries
	var archive gstapp.ReportArchive = storage.NewMemoryArchive()
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ReportArchive(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize report storage", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare report bucket", zap.Error(err))
		}
		archive = s3Archive
	}

	// Initialize repositories and application services
	repos := persistence.NewGormRepositories(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)
	sellerGSTIN := cfg.GST.DefaultSellerGSTIN

	inventoryService := inventoryapp.NewInventoryService(scope, repos, log).WithMetrics(businessMetrics)
	accountService := financeapp.NewAccountService(scope, repos, log, financeapp.WithAccountMetrics(businessMetrics))
	invoiceBuilder := financeapp.NewInvoiceBuilder(repos, sellerGSTIN, log).
		WithNotifier(financeapp.NewLoggingInvoiceNotifier(log)).
		WithMetrics(businessMetrics)
	orderService := tradeapp.NewOrderService(scope, repos, inventoryService, accountService, invoiceBuilder, log,
		tradeapp.WithOrderMetrics(businessMetrics),
		tradeapp.WithDefaultSellerGSTIN(sellerGSTIN),
	)
	customerService := partnerapp.NewCustomerService(scope, repos, log)
	productService := catalogapp.NewProductService(repos.Products(), log)
	gstService := gstapp.NewService(repos.Invoices(), repos.GSTAdjustments(), archive, sellerGSTIN, log)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Orders:    handler.NewOrderHandler(orderService),
		Invoices:  handler.NewInvoiceHandler(invoiceBuilder),
		Payments:  handler.NewPaymentHandler(accountService),
		Customers: handler.NewCustomerHandler(customerService, accountService),
		Products:  handler.NewProductHandler(productService, inventoryService),
		Batches:   handler.NewBatchHandler(inventoryService),
		Stock:     handler.NewStockHandler(inventoryService),
		GST:       handler.NewGSTHandler(gstService),
	}
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Recovery - turn panics into INTERNAL envelopes
	// 2. RequestID - generate or propagate X-Request-ID
	// 3. GinMiddleware - request-scoped logger and access log
	// 4. Tracing - server span per request, error code recorded on the span
	// 5. CORS and security headers
	// 6. BodyLimit and Timeout
	// 7. HTTPMetrics - request count and latency per route
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing())
	engine.Use(middleware.SpanErrorMarker())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	engine.Use(middleware.HTTPMetrics(meter, log))

	// Health check lives outside the organization-scoped API
	engine.GET("/health", healthHandler.Check)

	apiMiddleware := []gin.HandlerFunc{
		middleware.OrgContext(log),
		middleware.SpanAttributes(),
		middleware.Profiling(middleware.ProfilingConfig{Enabled: profiler.IsEnabled()}),
	}
	if cfg.Idempotency.Enabled {
		apiMiddleware = append(apiMiddleware, middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL))
	}
	router.NewRouter(engine).
		Use(apiMiddleware...).
		Register(router.APIGroups(handlers)...).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// shutdown flushes a telemetry provider with a bounded deadline
func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
