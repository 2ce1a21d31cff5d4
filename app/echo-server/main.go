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

	httpmetrics "youthPolicyHub/app/echo-server/metrics"
	"youthPolicyHub/app/echo-server/router"
	"youthPolicyHub/business/ingestion"
	"youthPolicyHub/business/policy"
	"youthPolicyHub/business/region"
	"youthPolicyHub/internal/middleware"
	psqlRepo "youthPolicyHub/internal/repository/postgres"
	redisRepo "youthPolicyHub/internal/repository/redis"
	"youthPolicyHub/internal/repository/youthcenter"
	"youthPolicyHub/internal/rest"
	"youthPolicyHub/pkg/config"
	"youthPolicyHub/pkg/database"
	redisClient "youthPolicyHub/pkg/database/redis"
	"youthPolicyHub/pkg/logger"
	"youthPolicyHub/pkg/metrics"
	"youthPolicyHub/pkg/scheduler"
	"youthPolicyHub/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting Youth Policy Hub", "version", cfg.App.Version)

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	metrics.Init()
	httpmetrics.Init()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Fatal("Invalid timezone", "timezone", cfg.App.Timezone, "error", err)
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	rdb, err := redisClient.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisClient.CloseRedisClient(rdb)

	resolver, err := region.LoadFromFile(cfg.YouthPolicy.RegionCodeDataPath)
	if err != nil {
		logger.Fatal("Failed to load region code data", "path", cfg.YouthPolicy.RegionCodeDataPath, "error", err)
	}
	logger.Info("Region code data loaded", "districts", resolver.Len())

	// Init validate
	validate := validator.New()

	// Init repo
	policyRepo := psqlRepo.NewPolicyRepository(db)
	favoriteRepo := psqlRepo.NewFavoritePolicyRepository(db)
	viewRepo := psqlRepo.NewViewPolicyRepository(db)
	interactionRepo := psqlRepo.NewUserInteractionRepository(db)
	userRepo := psqlRepo.NewUserRepository(db)
	rankingCache := redisRepo.NewRankingCache(rdb)

	youthCenterRepo := youthcenter.NewYouthCenterRepository(
		youthcenter.YouthCenterConfig{
			ApiUrl:      cfg.YouthPolicy.ApiUrl,
			ApiKey:      cfg.YouthPolicy.ApiKey,
			PageDelay:   cfg.YouthPolicy.PageDelay,
			RetryDelay:  cfg.YouthPolicy.RetryDelay,
			MaxRetries:  cfg.YouthPolicy.MaxRetries,
			HttpTimeout: cfg.YouthPolicy.HttpTimeout,
		},
	)

	// Init service
	policyService := policy.NewPolicyService(policyRepo, favoriteRepo, viewRepo, interactionRepo, userRepo, rankingCache, validate, cfg.Ranking.HotCacheTTL)
	ingestionService := ingestion.NewIngestionService(youthCenterRepo, policyRepo, resolver, cfg.YouthPolicy.PageSize)
	ingestionService.OnRefreshed(policyService.InvalidateHot)

	// Init scheduler
	jobs := scheduler.New(loc, cfg.YouthPolicy.RefreshTimeout)
	err = jobs.Register("youth_policy_refresh", cfg.YouthPolicy.RefreshCron, func(ctx context.Context) error {
		_, err := ingestionService.Refresh(ctx)
		return err
	})
	if err != nil {
		logger.Fatal("Failed to schedule policy refresh", "error", err)
	}
	jobs.Start()

	// Init handler
	policyHandler := rest.NewPolicyHandler(policyService, ingestionService, cfg.Server.RequestTimeout, cfg.YouthPolicy.RefreshTimeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupPolicyRoutes(api, policyHandler, authRequired, adminOnly)
	router.SetupPreferenceRoutes(api, policyHandler, authRequired)
	router.SetupMetricsRoute(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
