package middleware

import (
	"slices"
	"strings"

	"brewops/internal/repository"
	"brewops/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys read by the handlers.
const (
	LocalUserID     = "user_id"
	LocalUserEmail  = "user_email"
	LocalUserName   = "user_name"
	LocalPrivileges = "user_privileges"
)

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *fiber.Ctx) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth accepts a bearer token only while the account behind it is
// active and still on the token version it was issued with. The user's role
// privileges are reloaded here, so a demoted sales rep loses approval rights
// on the next request.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return unauthorized(c, "Missing authorization token")
		}
		token, ok := bearerToken(c)
		if !ok {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		switch {
		case err != nil:
			return unauthorized(c, "User not found")
		case !user.IsActive:
			return unauthorized(c, "User account is inactive")
		case user.TokenVersion != claims.TokenVersion:
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.FullName)
		c.Locals(LocalPrivileges, user.PrivilegeCodes())
		return c.Next()
	}
}

// RequirePrivilege gates a route on one privilege code, e.g. sales_order:approve.
func RequirePrivilege(code string) fiber.Handler {
	return requireOneOf("Forbidden: requires '"+code+"' privilege", code)
}

// RequireAnyPrivilege passes when the user holds at least one of codes. Read
// routes for customers, kegs and the catalog use it so order editors can pick
// from them without the manage privilege.
func RequireAnyPrivilege(codes ...string) fiber.Handler {
	return requireOneOf("Forbidden: requires one of "+strings.Join(codes, ", ")+" privileges", codes...)
}

func requireOneOf(denied string, codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		held, ok := c.Locals(LocalPrivileges).([]string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}
		for _, code := range codes {
			if slices.Contains(held, code) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": denied})
	}
}
