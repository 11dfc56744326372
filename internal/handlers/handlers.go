package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/backoffice/internal/config"
	"github.com/foxxcyber/backoffice/internal/database"
	"github.com/foxxcyber/backoffice/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db           *database.DB
	cfg          *config.Config
	orchestrator *services.Orchestrator
	reconciler   *services.Reconciler
}

// New creates a new Handler instance
func New(db *database.DB, cfg *config.Config, orchestrator *services.Orchestrator, reconciler *services.Reconciler) *Handler {
	return &Handler{
		db:           db,
		cfg:          cfg,
		orchestrator: orchestrator,
		reconciler:   reconciler,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}
