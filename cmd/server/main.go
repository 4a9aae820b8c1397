package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicegen/backend/internal/application/invoicing"
	"github.com/invoicegen/backend/internal/domain/batch"
	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/layout"
	"github.com/invoicegen/backend/internal/infrastructure/logger"
	"github.com/invoicegen/backend/internal/infrastructure/persistence"
	"github.com/invoicegen/backend/internal/infrastructure/storage"
	"github.com/invoicegen/backend/internal/interfaces/http/handler"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
	"github.com/invoicegen/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice generator",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Repositories
	historyRepo := persistence.NewGormJobHistoryRepository(db.DB)

	// Document engine and render style
	engine := layout.NewEngine(layout.WithLogger(log))
	style := layout.DefaultStyle()
	style.PageSize = cfg.Render.PageSize
	style.Orientation = cfg.Render.Orientation
	style.FontFamily = cfg.Render.FontFamily

	renderService := invoicing.NewRenderService(engine,
		invoicing.WithStyle(style),
		invoicing.WithRenderLogger(log),
	)

	// Application services
	batchOpts := []invoicing.BatchServiceOption{
		invoicing.WithWorkers(cfg.Batch.Workers),
		invoicing.WithBatchLogger(log),
	}
	var archiveStore invoicing.ArchiveStore
	if cfg.Storage.Enabled {
		store, err := storage.NewS3ArchiveStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize archive storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure archive bucket", zap.Error(err))
		}
		cancel()
		archiveStore = store
		log.Info("Archive storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		store, err := storage.NewLocalArchiveStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal("Failed to initialize local archive storage", zap.Error(err))
		}
		archiveStore = store
		log.Info("Using local archive storage", zap.String("dir", cfg.Storage.LocalDir))
	}
	batchOpts = append(batchOpts, invoicing.WithArchiveStore(archiveStore))
	batchService := invoicing.NewBatchService(renderService, historyRepo, batchOpts...)

	// Handlers
	invoiceHandler := handler.NewInvoiceHandler(renderService, cfg.Render.LogoMaxSize)
	batchHandler := handler.NewBatchHandler(batchService, historyRepo, archiveStore,
		cfg.Batch.MaxRows, batch.FailurePolicy(cfg.Batch.FailurePolicy))
	systemHandler := handler.NewSystemHandler(cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	ginEngine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body size limits
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))
	ginEngine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	ginEngine.Use(middleware.CORSWithConfig(corsConfig))
	ginEngine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	ginEngine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))

	invoiceRoutes := router.NewDomainGroup("/invoices")
	invoiceRoutes.POST("/render", invoiceHandler.Render)
	invoiceRoutes.POST("/batch", batchHandler.Run)
	r.Register(invoiceRoutes)

	batchRoutes := router.NewDomainGroup("/batches")
	batchRoutes.GET("", batchHandler.ListHistories)
	batchRoutes.GET("/template", batchHandler.DownloadTemplate)
	batchRoutes.GET("/:id", batchHandler.GetHistory)
	batchRoutes.GET("/:id/download", batchHandler.DownloadArchive)
	r.Register(batchRoutes)

	systemRoutes := router.NewDomainGroup("/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports readiness based on database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
