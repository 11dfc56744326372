package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/backoffice/internal/services"
)

// Rebuild regenerates the shift aggregates for one date.
// POST /api/rebuild?date=YYYY-MM-DD
func (h *Handler) Rebuild(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid or missing date parameter")
	}

	result, err := h.orchestrator.Rebuild(c.Context(), date)
	if err != nil {
		if errors.Is(err, services.ErrUpstreamUnavailable) {
			return Error(c, fiber.StatusBadGateway, "receipt source unavailable, retry the rebuild")
		}
		return Error(c, fiber.StatusInternalServerError, "rebuild failed")
	}

	return c.JSON(fiber.Map{
		"ok":                  true,
		"date":                result.Date,
		"itemsAggregated":     result.ItemsAggregated,
		"modifiersAggregated": result.ModifiersAggregated,
		"unmappedCategories":  result.UnmappedCategories,
	})
}

// DeriveIngredientUsage explodes the date's sold items through the
// recipe graph. Per-item failures ride back in the errors list; only
// infrastructure failure produces a non-200.
// POST /api/derive-ingredient-usage?date=YYYY-MM-DD
func (h *Handler) DeriveIngredientUsage(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid or missing date parameter")
	}

	result, err := h.orchestrator.DeriveUsage(c.Context(), date)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "usage derivation failed")
	}

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   result.RowCount,
		"skipped": result.Skipped,
		"errors":  errs,
	})
}
