package handler

import (
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// GET /api/invoices?page=&limit=
func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	result, err := h.service.List(c.UserContext(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// GET /api/invoices/:invoiceId
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c, "invoiceId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	invoice, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(invoice)
}
