// Package routes defines the API routing configuration. It wires
// repositories into services and services into handlers, then groups
// routes by audience: public, authenticated investor and admin.
package routes

import (
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/handlers"
	"github.com/gallahphu-bit/atlasyield/internal/middleware"
	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/services/auth"
	"github.com/gallahphu-bit/atlasyield/internal/services/investment"
	"github.com/gallahphu-bit/atlasyield/internal/services/review"
	"github.com/gallahphu-bit/atlasyield/internal/services/stats"
	"github.com/gallahphu-bit/atlasyield/internal/services/wallet"
	"github.com/gallahphu-bit/atlasyield/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// Services holds the wired service layer so main can reuse it for
// background loops.
type Services struct {
	Auth       auth.Service
	Wallet     wallet.Service
	Investment investment.Service
	Review     review.Service
	Stats      stats.Service
}

// SetupRoutes configures all application routes and returns the wired
// services.
func SetupRoutes(app *fiber.App, metrics wallet.MetricsCollector, pool *worker.Pool, logger *zap.Logger) *Services {
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)
	planRepo := repositories.NewPlanRepository(repositories.DB)
	investmentRepo := repositories.NewInvestmentRepository(repositories.DB)

	authService := auth.NewService(userRepo, walletRepo, logger)
	walletService := wallet.NewService(walletRepo, repositories.CacheService, wallet.Config{}, metrics, logger)
	investmentService := investment.NewService(investmentRepo, planRepo, repositories.CacheService, metrics, pool, logger)
	reviewService := review.NewService(walletRepo, repositories.CacheService, metrics, logger)
	statsService := stats.NewService(userRepo, walletRepo, investmentRepo, logger)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	planHandler := handlers.NewPlanHandler(investmentService)
	adminHandler := handlers.NewAdminHandler(walletService, reviewService, investmentService, statsService, userRepo)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, logger)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to AtlasYield API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")

	// Credential endpoints get a tighter rate limit than the global one.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})
	api.Post("/register", authLimiter, authHandler.Register)
	api.Post("/login", authLimiter, authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/plans", investmentHandler.ListPlans)

	// Authenticated investor routes
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/logout", authHandler.Logout)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	walletGroup.Post("/deposit", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Deposit)
	walletGroup.Post("/withdraw", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.Withdraw)

	protected.Get("/transactions", middleware.HasPermission(models.PermissionTransactionRead), walletHandler.GetTransactions)

	investments := protected.Group("/investments")
	investments.Get("/", middleware.HasPermission(models.PermissionInvestRead), investmentHandler.List)
	investments.Post("/", middleware.HasPermission(models.PermissionInvestWrite), investmentHandler.Create)
	investments.Get("/:id", middleware.HasPermission(models.PermissionInvestRead), investmentHandler.Get)

	// Admin routes
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Get("/dashboard", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.Dashboard)

	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListUsers)
	admin.Get("/users/:id", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.GetUser)
	admin.Put("/users/:id/status", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.UpdateUserStatus)
	admin.Put("/users/:id/account", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.UpdateUserAccount)
	admin.Put("/users/:id/profile", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.UpdateUserProfile)
	admin.Post("/users/:id/wallet", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.AdjustWallet)

	admin.Get("/transactions", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListTransactions)
	admin.Put("/transactions/:id/review", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.ReviewTransaction)
	admin.Post("/transactions", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.CreateTransaction)

	admin.Get("/plans", middleware.HasPermission(models.PermissionReadAdmin), planHandler.List)
	admin.Post("/plans", middleware.HasPermission(models.PermissionWriteAdmin), planHandler.Create)
	admin.Put("/plans/:id", middleware.HasPermission(models.PermissionWriteAdmin), planHandler.Update)
	admin.Delete("/plans/:id", middleware.HasPermission(models.PermissionWriteAdmin), planHandler.Delete)

	admin.Post("/investments", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.CreateInvestment)
	admin.Put("/investments/:id", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.UpdateInvestment)
	admin.Delete("/investments/:id", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.DeleteInvestment)

	return &Services{
		Auth:       authService,
		Wallet:     walletService,
		Investment: investmentService,
		Review:     reviewService,
		Stats:      statsService,
	}
}
