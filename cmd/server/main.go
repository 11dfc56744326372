package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/handlers"
	"github.com/foxxcyber/backoffice/internal/middleware"
	"github.com/foxxcyber/backoffice/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Shift window calculator
	window, err := services.NewShiftWindow(cfg)
	if err != nil {
		log.Fatalf("Failed to configure shift window: %v", err)
	}

	// Pipeline services
	posFeed := services.NewPOSFeedClient(cfg)
	aggregator := services.NewAggregator(db, posFeed, window, cfg)
	cascade := services.NewCascade(db, cfg)
	orchestrator := services.NewOrchestrator(aggregator, cascade)
	reconciler := services.NewReconciler(db, cfg)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, orchestrator, reconciler)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Derived-data reads (dashboards, reports)
	api.Get("/items", h.GetShiftItems)
	api.Get("/usage", h.GetIngredientUsage)
	api.Get("/reconcile", h.Reconcile)

	// Batch rebuild endpoints (scheduler / admin surface only)
	serviceAuth := middleware.ServiceAuthRequired(cfg)
	api.Post("/rebuild", serviceAuth, h.Rebuild)
	api.Post("/derive-ingredient-usage", serviceAuth, h.DeriveIngredientUsage)

	// Get port from environment or default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
