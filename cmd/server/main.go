package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"markethub/internal/adapters/http/middleware"
	"markethub/internal/adapters/http/routes"
	"markethub/internal/adapters/persistence"
	"markethub/internal/adapters/persistence/models"
	"markethub/internal/config"
	"markethub/internal/core/state"
	"markethub/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the state store
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open state store: %v", err)
	}
	defer store.Close()

	// Restore (or seed) the state document
	container, err := state.Load(context.Background(), store, config.DefaultState)
	if err != nil {
		log.Fatalf("❌ Failed to load state document: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "markethub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass container and cfg for dependency injection)
	sweeper := routes.Setup(app, container, clock.New(), cfg)

	// Start the lockout sweeper
	sweeper.Start()
	defer sweeper.Stop()

	// Graceful shutdown
	go gracefulShutdown(app, container)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStore selects the state store driver from configuration
func openStore(cfg *config.Config) (persistence.Store, error) {
	switch cfg.Store.Driver {
	case "mysql":
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("✅ Database migration completed")
		return persistence.NewGormStore(db), nil
	case "memory":
		log.Println("⚠️ Using in-memory store, state will not survive a restart")
		return persistence.NewMemoryStore(), nil
	default:
		log.Printf("✅ Using file store [%s]", cfg.Store.FilePath)
		return persistence.NewFileStore(cfg.Store.FilePath)
	}
}

// gracefulShutdown handles graceful shutdown. The persisted document
// is patched to a logged-out session on the way down, the equivalent
// of the browser closing the tab.
func gracefulShutdown(app *fiber.App, container *state.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := container.ForceLogout(ctx); err != nil {
		log.Printf("⚠️ Failed to clear persisted session: %v", err)
	}

	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
