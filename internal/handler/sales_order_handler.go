package handler

import (
	"brewops/internal/model"
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesOrderHandler struct {
	service service.SalesOrderService
}

func NewSalesOrderHandler(s service.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{service: s}
}

// GetOrders lists non-cancelled orders, newest first
// GET /api/sales-orders?page=&limit=
func (h *SalesOrderHandler) GetOrders(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.service.List(c.UserContext(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// GetOrder
// GET /api/sales-orders/:orderId
func (h *SalesOrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "orderId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	order, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}

// CreateOrder creates a Draft order
// POST /api/sales-orders
func (h *SalesOrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.Create(c.UserContext(), &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrder edits a Draft order; status "Approved" also issues the invoice
// PATCH /api/sales-orders/:orderId
func (h *SalesOrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "orderId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req service.UpdateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Approving() && !hasPrivilege(c, model.PrivSalesOrderApprove) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: requires '" + model.PrivSalesOrderApprove + "' privilege",
		})
	}

	order, err := h.service.Update(c.UserContext(), id, &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order)
}
