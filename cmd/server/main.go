package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Luminous-Dynamics/terra-atlas/internal/config"
	"github.com/Luminous-Dynamics/terra-atlas/internal/db"
	"github.com/Luminous-Dynamics/terra-atlas/internal/handler"
	"github.com/Luminous-Dynamics/terra-atlas/internal/middleware"
	"github.com/Luminous-Dynamics/terra-atlas/internal/repository"
	"github.com/Luminous-Dynamics/terra-atlas/internal/router"
	"github.com/Luminous-Dynamics/terra-atlas/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "terra-atlas-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, db.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: int32(cfg.DBMaxConns),
		MinConns: int32(cfg.DBMinConns),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	handler.InitMetrics(pool)

	// Repositories
	validationRepo := repository.NewValidationRepo(pool)
	dataPointRepo := repository.NewDataPointRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)

	// Services
	validationSvc := service.NewValidationService(validationRepo, cache)
	dataPointSvc := service.NewDataPointService(dataPointRepo, cache)
	authSvc := service.NewAuthService(userRepo, sessionRepo,
		[]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTL)*time.Hour)
	discoverySvc := service.NewDiscoveryService(dataPointRepo)
	layerSvc := service.NewLayerService(cfg.DataDir, cache)
	statsSvc := service.NewStatsService(userRepo)

	// Background workers
	trustWorker := service.NewTrustLevelWorker(userRepo, sessionRepo, 15*time.Minute)
	go trustWorker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Terra Atlas API",
		ServerHeader: "TerraAtlas",
	})

	router.Setup(app, &router.Handlers{
		Validation: handler.NewValidationHandler(validationSvc),
		Auth:       handler.NewAuthHandler(authSvc),
		DataPoint:  handler.NewDataPointHandler(dataPointSvc),
		Discovery:  handler.NewDiscoveryHandler(discoverySvc),
		Layer:      handler.NewLayerHandler(layerSvc),
		Stats:      handler.NewStatsHandler(statsSvc),
		Health:     handler.NewHealthHandler(pool, cache.Client()),
	}, middleware.RequireAuth([]byte(cfg.JWTSecret)), cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Terra Atlas backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
