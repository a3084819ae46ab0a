package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecochat-core/config"
	"ecochat-core/handlers"
	"ecochat-core/middleware"
	"ecochat-core/models"
	"ecochat-core/services"
	"ecochat-core/utils"
	"ecochat-core/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.LogError("config: %v", err)
		os.Exit(1)
	}
	utils.SetDebug(cfg.Debug)

	gormLogLevel := logger.Warn
	if cfg.Debug {
		gormLogLevel = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		utils.LogError("failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.TaskCompletion{},
	); err != nil {
		utils.LogError("failed to migrate database: %v", err)
		os.Exit(1)
	}

	userService := services.NewUserService(db)
	if _, err := userService.BackfillNameSearch(context.Background()); err != nil {
		utils.LogError("failed to backfill search keys: %v", err)
		os.Exit(1)
	}

	catalog, err := services.NewStaticCatalog(services.DefaultTasks)
	if err != nil {
		utils.LogError("invalid task catalog: %v", err)
		os.Exit(1)
	}

	friendshipService := services.NewFriendshipService(db)
	rankingService := services.NewRankingService(db)
	svc := handlers.Services{
		Identity:   services.NewIdentityService(db),
		Friendship: friendshipService,
		Scoring:    services.NewScoringService(db, catalog),
		Ranking:    rankingService,
		Profile:    services.NewProfileService(db, friendshipService),
		Users:      userService,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.R2.Enabled() {
		store, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			utils.LogError("failed to initialize R2 client: %v", err)
			os.Exit(1)
		}
		worker := workers.NewRankingSnapshotWorker(services.NewSnapshotService(rankingService, store), cfg.RankingSnapshotInterval)
		if err := worker.Start(ctx); err != nil {
			utils.LogError("failed to start snapshot worker: %v", err)
			os.Exit(1)
		}
	} else {
		utils.LogWarn("R2 not configured, ranking snapshots disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      "ecochat-core",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	// Only gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	handlers.SetupRoutes(app, svc)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			utils.LogError("Server error: %v", err)
			stop()
		}
	}()

	utils.LogSuccess("Server running on http://localhost:%s", cfg.Port)
	utils.LogSuccess("CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	utils.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		utils.LogError("shutdown: %v", err)
	}
}
