package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/scholarhub-org/scholarhub-api/api/swagger"
	"github.com/scholarhub-org/scholarhub-api/internal/handler"
	"github.com/scholarhub-org/scholarhub-api/internal/middleware"
	"github.com/scholarhub-org/scholarhub-api/internal/repository"
	"github.com/scholarhub-org/scholarhub-api/internal/service"
	"github.com/scholarhub-org/scholarhub-api/pkg/cache"
	"github.com/scholarhub-org/scholarhub-api/pkg/config"
	"github.com/scholarhub-org/scholarhub-api/pkg/database"
	"github.com/scholarhub-org/scholarhub-api/pkg/logger"
	corsmiddleware "github.com/scholarhub-org/scholarhub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scholarhub-org/scholarhub-api/pkg/middleware/requestid"
	"github.com/scholarhub-org/scholarhub-api/pkg/storage"
)

// @title ScholarHub API
// @version 1.0.0
// @description Directory API for scholarship-awardee mentors and the scholarships that fund them.
// @BasePath /api/v1
// @schemes http https
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	s3Store, err := storage.NewS3Store(cfg.S3)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	cleanup := service.NewImageCleanup(s3Store, metricsSvc, cfg.Cleanup, logr)
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()
	cleanup.Start(rootCtx)
	defer cleanup.Stop()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Listing.CacheTTL, logr, cfg.Listing.CacheEnabled)

	scholarRepo := repository.NewScholarRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	userRepo := repository.NewUserRepository(db)

	scholarSvc := service.NewScholarService(scholarRepo, s3Store, cleanup, cacheSvc, metricsSvc, cfg.Uploads, logr)
	sponsorSvc := service.NewSponsorService(sponsorRepo, s3Store, cleanup, cacheSvc, metricsSvc, cfg.Uploads, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	scholarHandler := handler.NewScholarHandler(scholarSvc)
	sponsorHandler := handler.NewSponsorHandler(sponsorSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	admin := middleware.JWT(authSvc)
	adminOnly := middleware.RequireAdmin()

	scholars := api.Group("/scholars")
	scholars.GET("", scholarHandler.List)
	scholars.GET("/:id", scholarHandler.Get)
	scholars.POST("", admin, adminOnly, scholarHandler.Create)
	scholars.PATCH("/:id", admin, adminOnly, scholarHandler.Update)
	scholars.DELETE("/:id", admin, adminOnly, scholarHandler.Delete)

	sponsors := api.Group("/sponsors")
	sponsors.GET("", sponsorHandler.List)
	sponsors.GET("/:id", sponsorHandler.Get)
	sponsors.POST("", admin, adminOnly, sponsorHandler.Create)
	sponsors.PATCH("/:id", admin, adminOnly, sponsorHandler.Update)
	sponsors.DELETE("/:id", admin, adminOnly, sponsorHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
