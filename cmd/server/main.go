package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/walklet/walklet-backend/internal/config"
	"github.com/walklet/walklet-backend/internal/database"
	"github.com/walklet/walklet-backend/internal/handlers"
	"github.com/walklet/walklet-backend/internal/logging"
	"github.com/walklet/walklet-backend/internal/middleware"
	"github.com/walklet/walklet-backend/internal/rewards"
	"github.com/walklet/walklet-backend/internal/routes"
	"github.com/walklet/walklet-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Custodial wallets are optional: without a master key users are created
	// wallet-less and the export endpoint reports the feature as unconfigured.
	walletService, err := services.NewWalletService(cfg.WalletEncryptionKey)
	if err != nil {
		slog.Warn("custodial wallets disabled", "error", err)
		walletService = nil
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg, walletService)
	profileService := services.NewProfileService(database.DB)
	walkService := services.NewWalkService(database.DB)
	nutritionService := services.NewNutritionService(
		services.NewHTTPNutritionClient(cfg.NutritionAPIURL, cfg.NutritionAPIKey),
	)
	mealService := services.NewMealService(database.DB, nutritionService)

	// Reward vouchers are likewise feature-gated on their signer secret.
	rewardService, err := rewards.NewServiceFromConfig(database.DB, cfg)
	if err != nil {
		slog.Warn("reward vouchers disabled", "error", err)
		rewardService = nil
	} else {
		slog.Info("reward signer loaded",
			"contract", cfg.STPCContractAddress,
			"chain_id", cfg.ChainID,
			"steps_per_stpc", cfg.RewardStepsPerSTPC,
		)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(profileService)
	walkHandler := handlers.NewWalkHandler(walkService)
	mealHandler := handlers.NewMealHandler(mealService)
	walletHandler := handlers.NewWalletHandler(profileService, walletService)
	configHandler := handlers.NewAppConfigHandler(database.DB)
	rewardHandler := rewards.NewHandler(rewardService)

	// Seed default client config values
	slog.Info("seeding app config defaults")
	configHandler.SeedDefaults(cfg)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authHandler, healthHandler, profileHandler, walkHandler, mealHandler, walletHandler, configHandler, rewardHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "dev_mode", cfg.DevMode)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
