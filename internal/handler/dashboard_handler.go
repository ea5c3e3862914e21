package handler

import (
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Stock movement windows, in days.
const (
	defaultMovementDays = 7
	maxMovementDays     = 90
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement charts Received against Sold and Lost ledger quantities
// per day. GET /api/dashboard/stock-movement?days=30
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultMovementDays)
	switch {
	case days <= 0:
		days = defaultMovementDays
	case days > maxMovementDays:
		days = maxMovementDays
	}

	movement, err := h.service.GetStockMovement(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"period": days, "data": movement})
}

// GetDashboardStats counts draft and approved orders, Filled kegs, kegs out at
// customers, and sums open invoices and finished goods on hand.
// GET /api/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
