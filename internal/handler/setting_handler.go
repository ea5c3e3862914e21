package handler

import (
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

type settingRequest struct {
	Value string `json:"value"`
}

// GET /api/settings
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(settings)
}

// GET /api/settings/:key
func (h *SettingHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.service.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(setting)
}

// PUT /api/settings/:key {"value": "..."}
func (h *SettingHandler) PutSetting(c *fiber.Ctx) error {
	var req settingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	setting, err := h.service.Set(c.UserContext(), c.Params("key"), req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Setting saved", "data": setting})
}
