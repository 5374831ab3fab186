package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gradebook-api/api/swagger"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/cache"
	"github.com/noah-isme/gradebook-api/pkg/config"
	"github.com/noah-isme/gradebook-api/pkg/database"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Gradebook API
// @version 1.0.0
// @description Course rosters, weighted grade tables and grade reports for a single instructor
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			logr.Fatal("migrate schema", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "gradebook", logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, cacheRepo.Available())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	weightRepo := repository.NewWeightConfigRepository(db)
	gradeRepo := repository.NewGradeRecordRepository(db)

	// Analytics reads grade sheets while every writer invalidates analytics,
	// so the writers get a hook that is bound once analytics exists.
	hook := &analyticsHook{}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, hook, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, courseRepo, hook, metricsSvc, validate, logr)
	weightSvc := service.NewWeightConfigService(weightRepo, courseRepo, hook, metricsSvc, grading.Weights(cfg.Grading.DefaultWeights), validate, logr)
	layouts := service.NewLayoutStore(cacheSvc, cfg.Grading.LayoutTTL)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, courseRepo, weightSvc, layouts, hook, metricsSvc, validate, logr)
	reportSvc := service.NewReportService(gradeSvc, metricsSvc, logr)

	var analyticsSvc *service.AnalyticsService
	if cfg.Analytics.Enabled {
		analyticsSvc = service.NewAnalyticsService(courseSvc, gradeSvc, cacheSvc, cfg.Analytics.CacheTTL, logr)
		hook.target = analyticsSvc
	}

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, cfg.Import.MaxFileSizeBytes)
	weightHandler := handler.NewWeightConfigHandler(weightSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"database": db.PingContext,
		"redis":    cacheRepo.Ping,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/session", authHandler.Session)
	secured.GET("/metrics/summary", metricsHandler.Summary)

	secured.GET("/courses", courseHandler.List)
	secured.POST("/courses", courseHandler.Create)
	secured.GET("/courses/:id", courseHandler.Get)
	secured.PUT("/courses/:id", courseHandler.Update)
	secured.DELETE("/courses/:id", courseHandler.Delete)

	secured.GET("/courses/:id/students", studentHandler.List)
	secured.POST("/courses/:id/students", studentHandler.Create)
	secured.POST("/courses/:id/students/import", studentHandler.Import)
	secured.DELETE("/students/:id", studentHandler.Delete)

	secured.GET("/courses/:id/weights", weightHandler.Get)
	secured.PUT("/courses/:id/weights", weightHandler.Save)

	secured.GET("/courses/:id/grades", gradeHandler.Table)
	secured.PUT("/courses/:id/grades", gradeHandler.Save)
	secured.POST("/courses/:id/grades/preview", gradeHandler.Preview)
	secured.GET("/courses/:id/grades/layout", gradeHandler.Layout)
	secured.POST("/courses/:id/grades/layout/:key/slots", gradeHandler.AdjustSlots)

	secured.GET("/courses/:id/report", reportHandler.Stored)
	secured.POST("/courses/:id/report", reportHandler.Edited)

	if analyticsSvc != nil {
		analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
		secured.GET("/analytics/grades", analyticsHandler.Grades)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logr.Fatal("server failed", zap.Error(err))
	case sig := <-shutdown:
		logr.Info("shutdown started", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
	}
}

// analyticsHook forwards invalidations to the analytics service when it is enabled.
type analyticsHook struct {
	target *service.AnalyticsService
}

func (h *analyticsHook) InvalidateCourse(ctx context.Context, courseID string) {
	if h.target != nil {
		h.target.InvalidateCourse(ctx, courseID)
	}
}
