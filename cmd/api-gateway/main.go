package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/sie-ecommerce/enrollment-api/api/swagger"
	"github.com/sie-ecommerce/enrollment-api/internal/handler"
	"github.com/sie-ecommerce/enrollment-api/internal/middleware"
	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/internal/repository"
	"github.com/sie-ecommerce/enrollment-api/internal/roster"
	"github.com/sie-ecommerce/enrollment-api/internal/service"
	"github.com/sie-ecommerce/enrollment-api/pkg/cache"
	"github.com/sie-ecommerce/enrollment-api/pkg/config"
	"github.com/sie-ecommerce/enrollment-api/pkg/database"
	"github.com/sie-ecommerce/enrollment-api/pkg/jobs"
	"github.com/sie-ecommerce/enrollment-api/pkg/logger"
	corsmiddleware "github.com/sie-ecommerce/enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sie-ecommerce/enrollment-api/pkg/middleware/requestid"
	"github.com/sie-ecommerce/enrollment-api/pkg/storage"
)

// @title Enrollment API
// @version 1.0.0
// @description Seat-accounted extracurricular enrollment for school units
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The service degrades to uncached reads and unthrottled admin
		// attempts without redis.
		logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	store := roster.NewPostgresStore(db)

	enrollmentRepo := repository.NewEnrollmentRepository(store, cfg.Sheets.Enrollments)
	modalityRepo := repository.NewModalityRepository(store, cfg.Sheets.Modalities)
	studentRepo := repository.NewStudentRepository(store, cfg.Sheets.Students)
	archiveRepo := repository.NewArchiveRepository(store, cfg.Sheets.Archive)
	identityRepo := repository.NewIdentityRepository(store, cfg.Sheets.Authorized, cfg.Sheets.Logins)
	cacheRepo := repository.NewCacheRepository(redisClient)

	validate := validator.New()
	metrics := service.NewMetricsService()

	authSvc := service.NewAuthService(identityRepo, cacheRepo, cfg.JWT, cfg.Admin, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, modalityRepo, studentRepo, archiveRepo, cacheRepo, cfg.Enrollment.StudentCap, validate, logr)
	modalitySvc := service.NewModalityService(modalityRepo, enrollmentRepo, studentRepo, cacheRepo, cfg.Enrollment.SeatCacheTTL, logr)
	rollupSvc := service.NewRollupService(enrollmentRepo, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(rollupSvc, exportStore, signer, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	}, validate, logr)
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	go cleanupExports(ctx, exportStore, cfg.Exports, logr)

	authHandler := handler.NewAuthHandler(authSvc, metrics)
	modalityHandler := handler.NewModalityHandler(modalitySvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metrics)
	rollupHandler := handler.NewRollupHandler(rollupSvc, exportSvc, metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/downloads", rollupHandler.Download)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/auth/admin/unlock", authHandler.AdminUnlock)
	authed.GET("/modalities", modalityHandler.List)
	authed.GET("/students", enrollmentHandler.Students)
	authed.POST("/enrollments/preview", enrollmentHandler.Preview)
	authed.POST("/enrollments", enrollmentHandler.Commit)
	authed.GET("/enrollments", enrollmentHandler.List)
	authed.DELETE("/enrollments/:position", enrollmentHandler.Delete)

	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/rollup", rollupHandler.Report)
	admin.POST("/rollup/exports", rollupHandler.RequestExport)
	admin.GET("/rollup/exports/:id", rollupHandler.GetExport)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}

// cleanupExports removes expired export files on a fixed interval.
func cleanupExports(ctx context.Context, store *storage.LocalStorage, cfg config.ExportsConfig, logr *zap.Logger) {
	if cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.CleanupOlderThan(cfg.SignedURLTTL)
			if err != nil {
				logr.Sugar().Warnw("export cleanup failed", "error", err)
				continue
			}
			if len(deleted) > 0 {
				logr.Sugar().Infow("expired exports removed", "count", len(deleted))
			}
		}
	}
}
