package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "jobintake_backend/internals/helpers"
)

// OnlyRolesSlice lets the request through when userRole is one of allowed.
// With auth disabled (no secret) there is no role and the check is skipped.
func OnlyRolesSlice(message string, allowed []string, authEnabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authEnabled {
			return c.Next()
		}
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		log.Printf("[AUTH] role %q denied on %s %s", role, c.Method(), c.Path())
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}
