package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/backoffice/internal/services"
)

// GetShiftItems returns the derived item and modifier aggregates for a
// date, optionally filtered by catalog category.
// GET /api/items?date=YYYY-MM-DD[&category=...]
func (h *Handler) GetShiftItems(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid or missing date parameter")
	}

	items, err := h.db.GetItemAggregates(c.Context(), date, c.Query("category"))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load item aggregates")
	}

	modifiers, err := h.db.GetModifierAggregates(c.Context(), date)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load modifier aggregates")
	}

	return c.JSON(fiber.Map{
		"ok":        true,
		"items":     items,
		"modifiers": modifiers,
	})
}

// GetIngredientUsage returns the derived leaf ingredient usage for a date.
// GET /api/usage?date=YYYY-MM-DD
func (h *Handler) GetIngredientUsage(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid or missing date parameter")
	}

	usage, err := h.db.GetIngredientUsage(c.Context(), date)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load ingredient usage")
	}

	return Success(c, usage)
}
