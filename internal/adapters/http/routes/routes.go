package routes

import (
	"markethub/internal/adapters/http/handlers"
	"markethub/internal/adapters/http/middleware"
	"markethub/internal/config"
	"markethub/internal/core/services"
	"markethub/internal/core/state"
	"markethub/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, container *state.Container, clk clock.Clock, cfg *config.Config) *services.SweepService {
	// Initialize services
	lockouts := services.NewLockoutTracker(clk)
	authService := services.NewAuthService(container, lockouts, cfg)
	ledgerService := services.NewLedgerService(container, clk)
	marketService := services.NewMarketService(container)
	adminService := services.NewAdminService(container, clk)
	sweepService := services.NewSweepService(container, lockouts)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	marketHandler := handlers.NewMarketHandler(marketService, ledgerService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, stricter rate limit)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Use(middleware.AuthRateLimiter())
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/admin/step1", authHandler.AdminStep1)
	authRoutes.Post("/admin/step2", authHandler.AdminStep2)
	authRoutes.Post("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Market routes (authenticated users)
	marketRoutes := apiV1.Group("/market")
	marketRoutes.Use(middleware.AuthMiddleware(cfg))
	marketRoutes.Get("/vendors", marketHandler.ListVendors)
	marketRoutes.Post("/products", middleware.VendorOnly(), marketHandler.AddProduct)
	marketRoutes.Delete("/products/:name", middleware.VendorOnly(), marketHandler.RemoveProduct)
	marketRoutes.Post("/requests", middleware.VendorOnly(), marketHandler.RequestPayment)
	marketRoutes.Get("/pending", middleware.CustomerOnly(), marketHandler.PendingPayments)
	marketRoutes.Post("/pending/:id/settle", middleware.CustomerOnly(), marketHandler.Settle)

	// Admin routes (admin principal only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/users", adminHandler.ListUsers)
	adminRoutes.Put("/users/:identity/credits", adminHandler.SetCredits)
	adminRoutes.Delete("/users/:identity", adminHandler.DeleteUser)
	adminRoutes.Post("/withdraw", adminHandler.Withdraw)
	adminRoutes.Get("/balance", adminHandler.Balance)
	adminRoutes.Get("/logs", adminHandler.Logs)

	return sweepService
}
