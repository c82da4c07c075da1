package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecotrip/internal/config"
	"ecotrip/internal/handlers"
	"ecotrip/internal/middleware"
	"ecotrip/internal/repositories/mongodb"
	"ecotrip/internal/services"
	"ecotrip/internal/utils"
	"ecotrip/pkg/cache"
	"ecotrip/pkg/database"
	"ecotrip/pkg/logger"
	"ecotrip/pkg/push"
	"ecotrip/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Infof("Starting %s %s", cfg.App.Name, cfg.App.Version)

	// MongoDB
	mongoDB, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()

	if err := database.EnsureIndexes(mongoDB.Database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Push providers, either may be absent
	var fcmProvider, apnsProvider push.Provider
	if cfg.Push.FCM.ProjectID != "" {
		provider, err := push.NewFCMProvider(context.Background(), &push.FCMConfig{
			ProjectID:       cfg.Push.FCM.ProjectID,
			CredentialsFile: cfg.Push.FCM.Credentials,
		})
		if err != nil {
			log.WithError(err).Warn("FCM provider disabled")
		} else {
			fcmProvider = provider
		}
	}
	if cfg.Push.APNS.KeyFile != "" {
		provider, err := push.NewAPNSProvider(&push.APNSConfig{
			KeyID:      cfg.Push.APNS.KeyID,
			TeamID:     cfg.Push.APNS.TeamID,
			BundleID:   cfg.Push.APNS.BundleID,
			KeyFile:    cfg.Push.APNS.KeyFile,
			Production: cfg.Push.APNS.Production,
		})
		if err != nil {
			log.WithError(err).Warn("APNS provider disabled")
		} else {
			apnsProvider = provider
		}
	}

	// Services
	cacheService := services.NewCacheService(redisCache, log)

	// Repositories
	tripRepo := mongodb.NewTripRepository(mongoDB.Database)
	ecoStatRepo := mongodb.NewEcoStatRepository(mongoDB.Database)
	ecoTotalRepo := mongodb.NewEcoTotalRepository(mongoDB.Database)
	achievementRepo := mongodb.NewAchievementRepository(mongoDB.Database)
	processedTripRepo := mongodb.NewProcessedTripRepository(mongoDB.Database)
	notificationRepo := mongodb.NewNotificationRepository(mongoDB.Database, cacheService)
	userRepo := mongodb.NewUserRepository(mongoDB.Database)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, fcmProvider, apnsProvider, log)
	ecoService := services.NewEcoService(
		tripRepo,
		ecoStatRepo,
		ecoTotalRepo,
		achievementRepo,
		processedTripRepo,
		userRepo,
		mongoDB,
		cacheService,
		notificationService,
		cfg.Eco.Policy(),
		log,
	)
	tripService := services.NewTripService(tripRepo, ecoService, notificationService, log)

	// HTTP
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		checks := gin.H{"mongodb": "up", "redis": "up"}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongoDB.Ping(); err != nil {
			checks["mongodb"] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := redisCache.Ping(ctx); err != nil {
			checks["redis"] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":  status,
			"app":     utils.AppName,
			"version": utils.AppVersion,
			"checks":  checks,
		})
	})

	routes.SetupRoutes(router, &routes.Handlers{
		Trip:         handlers.NewTripHandler(tripService),
		Eco:          handlers.NewEcoHandler(ecoService),
		Notification: handlers.NewNotificationHandler(notificationService),
	}, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}
