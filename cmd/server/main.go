package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pos/backend/internal/application/attachment"
	identityapp "github.com/pos/backend/internal/application/identity"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	payrollapp "github.com/pos/backend/internal/application/payroll"
	purchasingapp "github.com/pos/backend/internal/application/purchasing"
	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/storage"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing and metrics
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tp.Shutdown)

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdown(log, "meter provider", mp.Shutdown)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  mp.Meter("pos-backend/business"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(cfg.Database,
		persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
		persistence.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem(db.Driver),
	}, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// The versioned PostgreSQL schema is applied by cmd/migrate; the other
	// drivers are created from the models here.
	if db.Driver != config.DriverPostgres {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to create schema", zap.Error(err))
		}
	}

	permissionCache, cacheCloser, err := cache.NewPermissionCache(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize permission cache", zap.Error(err))
	}
	defer func() { _ = cacheCloser.Close() }()

	objectStorage, err := newObjectStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Application services
	repos := persistence.NewRepositories(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	invoiceService := salesapp.NewInvoiceService(repos, scope, log)
	invoiceService.SetMetrics(businessMetrics)
	supplierBillService := purchasingapp.NewSupplierBillService(repos, scope, log)
	supplierBillService.SetMetrics(businessMetrics)
	salaryService := payrollapp.NewSalaryService(repos, scope, log)
	salaryService.SetMetrics(businessMetrics)
	stockService := inventoryapp.NewStockService(repos, scope, log)
	permissionService := identityapp.NewPermissionService(repos, scope, permissionCache, log)
	attachmentService := attachment.NewService(objectStorage, log)

	// HTTP
	middleware.SetupValidator()

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		TracingEnabled: tp.IsEnabled(),
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to configure HTTP engine", zap.Error(err))
	}

	router.Mount(engine, router.Handlers{
		Health:       handler.NewHealthHandler(db, version),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Stock:        handler.NewStockHandler(stockService),
		SupplierBill: handler.NewSupplierBillHandler(supplierBillService),
		Salary:       handler.NewSalaryHandler(salaryService),
		Permission:   handler.NewPermissionHandler(permissionService),
		Upload:       handler.NewUploadHandler(attachmentService),
	}, router.Security{
		Tokens:      auth.NewJWTService(cfg.JWT),
		Permissions: permissionService,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

// newObjectStorage returns S3 storage when credentials are configured and
// an in-process store otherwise
func newObjectStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (attachment.ObjectStorage, error) {
	if !cfg.Enabled() {
		log.Warn("Object storage not configured, payment proofs are kept in memory")
		return storage.NewMemoryObjectStorage(), nil
	}
	s3, err := storage.NewS3ObjectStorage(cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Using S3 object storage", zap.String("bucket", s3.Bucket()))
	return s3, nil
}

func dbSystem(driver string) string {
	switch driver {
	case config.DriverPostgres:
		return "postgresql"
	default:
		return driver
	}
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Failed to shut down "+name, zap.Error(err))
	}
}
