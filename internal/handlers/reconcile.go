package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/backoffice/internal/services"
)

// Reconcile runs the three-way shift comparison for a date and returns
// the full record. Out-of-tolerance results are normal output, carried
// as flags, never as an error status.
// GET /api/reconcile?date=YYYY-MM-DD
func (h *Handler) Reconcile(c *fiber.Ctx) error {
	date, err := services.ParseDate(c.Query("date"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid or missing date parameter")
	}

	record, err := h.reconciler.Reconcile(c.Context(), date)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "reconciliation failed")
	}

	return c.JSON(record)
}
