package handler

import (
	"brewops/internal/model"
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// GetInventory lists stock rows, optionally filtered with ?type=
// GET /api/inventory
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	records, err := h.service.List(c.UserContext(), model.InventoryType(c.Query("type")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(records)
}

// GetTransactions returns the ledger, newest first
// GET /api/inventory/transactions?page=&limit=
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.service.ListTransactions(c.UserContext(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// Receive
// POST /api/inventory/receive
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var req service.ReceiveInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	record, err := h.service.Receive(c.UserContext(), &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Inventory received", "data": record})
}

// Adjust sets the counted quantity
// POST /api/inventory/:id/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req service.AdjustInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	record, err := h.service.Adjust(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory adjusted", "data": record})
}

// POST /api/inventory/:id/move
func (h *InventoryHandler) Move(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req service.MoveInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	record, err := h.service.Move(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Inventory moved", "data": record})
}

// POST /api/inventory/:id/lose
func (h *InventoryHandler) Lose(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req service.LoseInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	record, err := h.service.Lose(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Loss recorded", "data": record})
}
