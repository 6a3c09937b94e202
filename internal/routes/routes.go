package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/walklet/walklet-backend/internal/config"
	"github.com/walklet/walklet-backend/internal/handlers"
	"github.com/walklet/walklet-backend/internal/middleware"
	"github.com/walklet/walklet-backend/internal/rewards"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	walkHandler *handlers.WalkHandler,
	mealHandler *handlers.MealHandler,
	walletHandler *handlers.WalletHandler,
	configHandler *handlers.AppConfigHandler,
	rewardHandler *rewards.Handler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Public
	api.Get("/health", healthHandler.Check)
	api.Get("/config", configHandler.GetConfig)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google", authHandler.GoogleSignIn)

	// Protected auth routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Profile
	api.Get("/users/me", middleware.JWTProtected(cfg), profileHandler.GetMe)
	api.Put("/users/me", middleware.JWTProtected(cfg), profileHandler.UpdateMe)

	// Walks
	api.Post("/walks", middleware.JWTProtected(cfg), walkHandler.CreateWalk)
	api.Get("/walks", middleware.JWTProtected(cfg), walkHandler.GetMyWalks)
	api.Get("/walks/stats", middleware.JWTProtected(cfg), walkHandler.GetStats)

	// Meals
	api.Post("/meals/analyze", middleware.JWTProtected(cfg), mealHandler.AnalyzeMeal)
	api.Get("/meals", middleware.JWTProtected(cfg), mealHandler.GetMyMeals)

	// Wallet
	api.Get("/wallet", middleware.JWTProtected(cfg), walletHandler.GetWallet)

	// Development-only surface: hidden (404) outside dev mode
	dev := api.Group("/dev", middleware.DevOnly(cfg), middleware.JWTProtected(cfg))
	dev.Post("/rewards/voucher-walk", rewardHandler.IssueWalkVoucher)
	dev.Get("/wallet/export-key", walletHandler.ExportKey)
	dev.Delete("/walks/:id", walkHandler.DeleteWalk)

	// Admin config management
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))
	admin.Put("/config/:key", configHandler.SetConfigKey)
	admin.Delete("/config/:key", configHandler.DeleteConfigKey)
}
