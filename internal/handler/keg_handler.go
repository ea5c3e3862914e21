package handler

import (
	"brewops/internal/model"
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type KegHandler struct {
	service service.KegService
}

func NewKegHandler(s service.KegService) *KegHandler {
	return &KegHandler{service: s}
}

// GetKegs lists kegs, optionally filtered with ?status=
// GET /api/kegs
func (h *KegHandler) GetKegs(c *fiber.Ctx) error {
	status := model.KegStatus(c.Query("status"))
	kegs, err := h.service.List(c.UserContext(), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(kegs)
}

// GET /api/kegs/:code
func (h *KegHandler) GetKeg(c *fiber.Ctx) error {
	keg, err := h.service.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(keg)
}

// POST /api/kegs
func (h *KegHandler) RegisterKeg(c *fiber.Ctx) error {
	var req service.RegisterKegRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	keg, err := h.service.Register(c.UserContext(), &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Keg registered", "data": keg})
}

// POST /api/kegs/:code/fill
func (h *KegHandler) FillKeg(c *fiber.Ctx) error {
	var req service.FillKegRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	keg, err := h.service.Fill(c.UserContext(), c.Params("code"), &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Keg filled", "data": keg})
}

// POST /api/kegs/:code/return
func (h *KegHandler) ReturnKeg(c *fiber.Ctx) error {
	var req service.ReturnKegRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid JSON")
		}
	}
	keg, err := h.service.Return(c.UserContext(), c.Params("code"), &req, actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Keg returned", "data": keg})
}

// POST /api/kegs/:code/retire
func (h *KegHandler) RetireKeg(c *fiber.Ctx) error {
	keg, err := h.service.Retire(c.UserContext(), c.Params("code"), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Keg retired", "data": keg})
}
