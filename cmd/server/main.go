package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/salgsflyt/salgsflyt-backend/config"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/controller"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/internal/db"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
	"github.com/salgsflyt/salgsflyt-backend/internal/router"
	"github.com/salgsflyt/salgsflyt-backend/internal/scheduler"
	"github.com/salgsflyt/salgsflyt-backend/internal/storage"
	ws "github.com/salgsflyt/salgsflyt-backend/internal/websocket"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"github.com/salgsflyt/salgsflyt-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Salgsflyt Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Registry client, with Redis-backed unit cache when Redis is up.
	// Uten Redis går alle oppslag rett mot BRREG; det er OK.
	registryClient := brreg.NewClient(brreg.Config{
		BaseURL: cfg.Brreg.BaseURL,
		Timeout: cfg.Brreg.Timeout,
	})
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, registry lookups will be uncached", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
		registryClient.UseCache(redis.NewUnitCache(cfg.Brreg.CacheTTL))
	}

	// Initialize repositories
	workspaceRepo := repository.NewWorkspaceRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	brregRepo := repository.NewBrregRepository(db.GetDB())
	taskRepo := repository.NewTaskRepository(db.GetDB())
	activityRepo := repository.NewActivityRepository(db.GetDB())
	offerRepo := repository.NewOfferRepository(db.GetDB())
	savedSearchRepo := repository.NewSavedSearchRepository(db.GetDB())

	// Websocket hub for pipeline events
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		workspaceRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	businessService := service.NewBusinessService(businessRepo, activityRepo, brregRepo, registryClient, hub)
	leadService := service.NewLeadService(businessRepo, activityRepo, registryClient)
	brregService := service.NewBrregService(registryClient, brregRepo)
	taskService := service.NewTaskService(taskRepo, businessRepo)
	offerService := service.NewOfferService(offerRepo, businessRepo, activityRepo)
	activityService := service.NewActivityService(activityRepo, businessRepo)
	dashboardService := service.NewDashboardService(businessRepo, taskRepo, brregRepo)
	savedSearchService := service.NewSavedSearchService(savedSearchRepo)

	// S3 presigned uploads for offer attachments
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	workspaceController := controller.NewWorkspaceController(workspaceService)
	businessController := controller.NewBusinessController(businessService, activityService)
	brregController := controller.NewBrregController(brregService, businessService)
	taskController := controller.NewTaskController(taskService)
	offerController := controller.NewOfferController(offerService)
	dashboardController := controller.NewDashboardController(dashboardService)
	savedSearchController := controller.NewSavedSearchController(savedSearchService, brregService)
	leadController := controller.NewLeadController(leadService)
	eventsController := controller.NewEventsController(hub, controller.NewUpgrader(cfg.CORS.AllowedOrigins))
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(workspaceService)

	// Nightly re-sync against the registry
	syncScheduler := scheduler.NewSyncScheduler(businessRepo, businessService)
	if err := syncScheduler.Start(); err != nil {
		logger.Fatal("Failed to start registry sync scheduler", err)
	}
	defer syncScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		workspaceController,
		businessController,
		brregController,
		taskController,
		offerController,
		dashboardController,
		savedSearchController,
		leadController,
		eventsController,
		uploadController,
		authMiddleware,
		apiKeyMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
