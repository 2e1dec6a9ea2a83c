package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	appdocument "github.com/rentaldocs/backend/internal/application/document"
	apppartner "github.com/rentaldocs/backend/internal/application/partner"
	domainbranding "github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/infrastructure/auth"
	"github.com/rentaldocs/backend/internal/infrastructure/branding"
	"github.com/rentaldocs/backend/internal/infrastructure/cache"
	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"github.com/rentaldocs/backend/internal/infrastructure/logger"
	"github.com/rentaldocs/backend/internal/infrastructure/migration"
	"github.com/rentaldocs/backend/internal/infrastructure/persistence"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"github.com/rentaldocs/backend/internal/interfaces/http/handler"
	"github.com/rentaldocs/backend/internal/interfaces/http/middleware"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
	"github.com/rentaldocs/backend/migrations"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Rental Documents API
//	@version		1.0
//	@description	Quotes, invoices and purchase orders with XLSX, DOCX and PDF export

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.ForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	logsLevel, err := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
	if err != nil {
		logsLevel = zapcore.InfoLevel
	}
	log = loggerProvider.Bridge(log, logsLevel)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileMutex:      cfg.Profiling.ProfileMutex,
		ProfileBlock:      cfg.Profiling.ProfileBlock,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting rental documents backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("pdf_engine", cfg.Render.PDFEngine),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.SlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		DBSystem:   dbSystem(cfg.Database.Driver),
		LogFullSQL: !cfg.IsProduction(),
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	poolMetrics, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("rentaldocs/db"), db.Stats, log)
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}

	switch {
	case cfg.Database.Driver == config.DriverSQLite:
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	case cfg.Database.AutoMigrate:
		if err := migrateSchema(cfg.Database.DSN(), log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Persistence client
	store, err := cache.New(ctx, cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()))
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()
	client := persistence.NewClient(db, store, persistence.NewGormRepositories(db), cfg.Cache, log)

	// Branding
	var resolver *branding.S3AssetResolver
	if cfg.Storage.Enabled {
		resolver, err = branding.NewS3AssetResolver(ctx, &cfg.Storage, branding.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize branding storage", zap.Error(err))
		}
	}
	settings := branding.NewStaticSettingsProvider(cfg.Branding)

	// Renderers
	images := render.NewImageLoader(render.ImageLoaderConfig{
		BaseURL:  cfg.Branding.APIBaseURL,
		Timeout:  cfg.Render.ImageTimeout,
		Resolver: assetResolver(resolver),
		Logger:   log,
	})
	renderers := []render.Renderer{
		render.NewSpreadsheetRenderer(log),
		render.NewWordRenderer(log),
		render.NewPDFRenderer(render.PDFConfig{
			DisableCompression: cfg.Render.DisableCompression,
			Logger:             log,
		}),
	}
	if cfg.Render.PDFEngine == config.PDFEngineChromium {
		chromium, err := render.NewChromiumPDFRenderer(&render.ChromedpConfig{
			DefaultTimeout: cfg.Render.ChromeTimeout,
			RemoteURL:      cfg.Render.ChromeRemoteURL,
			NoSandbox:      cfg.Render.ChromeNoSandbox,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize Chromium PDF renderer", zap.Error(err))
		}
		renderers = append(renderers, chromium)
	}
	renderService := render.NewService(images, log, renderers...)
	defer func() {
		if err := renderService.Close(); err != nil {
			log.Error("Error closing renderers", zap.Error(err))
		}
	}()

	// Application services
	documentMetrics, err := telemetry.NewDocumentMetrics(meterProvider.Meter("rentaldocs/documents"))
	if err != nil {
		log.Fatal("Failed to create document metrics", zap.Error(err))
	}
	documentService := appdocument.NewDocumentService(
		client.Documents(), client.Customers(), client.Vendors(), log,
		appdocument.WithMetrics(documentMetrics),
	)
	exportService := appdocument.NewExportService(documentService, renderService, settings, log,
		appdocument.WithExportMetrics(documentMetrics),
	)

	// HTTP engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.SpanAttributes(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(meterProvider.Meter("rentaldocs/http"), log),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var exportMiddleware []gin.HandlerFunc
	if cfg.HTTP.ExportRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.ExportRateLimit, cfg.HTTP.ExportRateWindow)
		defer limiter.Stop()
		exportMiddleware = append(exportMiddleware, middleware.RateLimit(limiter))
	}

	documentHandler := handler.NewDocumentHandler(documentService, exportService)
	partnerHandler := handler.NewPartnerHandler(
		apppartner.NewCustomerService(client.Customers(), log),
		apppartner.NewVendorService(client.Vendors(), log),
	)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, client)

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()
	apiMiddleware := []gin.HandlerFunc{middleware.Profiling(profilingConfig)}
	if cfg.Auth.Enabled {
		apiMiddleware = append(apiMiddleware, middleware.BearerAuth(auth.NewTokenVerifier(cfg.Auth), log))
	}
	apiMiddleware = append(apiMiddleware, middleware.DocumentContext())

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(apiMiddleware...),
	)
	r.RegisterRoot(handler.SystemRoutes(systemHandler)).
		Register(handler.DocumentRoutes(documentHandler, exportMiddleware...)).
		Register(handler.CustomerRoutes(partnerHandler)).
		Register(handler.VendorRoutes(partnerHandler))
	if cfg.Swagger.Enabled {
		r.RegisterRoot(handler.SwaggerRoutes(middleware.IPAllowList(cfg.Swagger.AllowedIPs)))
		log.Info("Swagger UI enabled", zap.Strings("allowed_ips", cfg.Swagger.AllowedIPs))
	}
	r.Setup()

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
	}
	if err := poolMetrics.Unregister(); err != nil {
		log.Warn("Failed to unregister pool metrics", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// dbSystem names the database on trace spans
func dbSystem(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite"
	}
	return "postgresql"
}

// assetResolver avoids handing a typed nil to the image loader
func assetResolver(r *branding.S3AssetResolver) domainbranding.AssetResolver {
	if r == nil {
		return nil
	}
	return r
}

// migrateSchema applies the embedded PostgreSQL migrations on a dedicated
// connection, which the migrator closes
func migrateSchema(dsn string, log *zap.Logger) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	m, err := migration.New(conn, migrations.FS, log)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return m.Up()
}
