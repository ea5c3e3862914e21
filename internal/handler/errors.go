package handler

import (
	"strconv"

	"brewops/internal/middleware"
	"brewops/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case service.IsValidation(err):
		return fiber.StatusBadRequest
	case service.IsNotFound(err):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// Helpers for the user info RequireAuth stores in the request context.
func getUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	if !ok {
		return "system"
	}
	return userID
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail, _ := c.Locals(middleware.LocalUserEmail).(string)
	return userEmail
}

func getUserPrivileges(c *fiber.Ctx) []string {
	privileges, _ := c.Locals(middleware.LocalPrivileges).([]string)
	return privileges
}

func hasPrivilege(c *fiber.Ctx, code string) bool {
	for _, p := range getUserPrivileges(c) {
		if p == code {
			return true
		}
	}
	return false
}

// actor is the name written to createdBy columns and websocket events.
func actor(c *fiber.Ctx) string {
	if email := getUserEmail(c); email != "" {
		return email
	}
	return getUserID(c)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// pageParams reads ?page and ?limit; the services apply defaults and caps.
func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 10)
}
