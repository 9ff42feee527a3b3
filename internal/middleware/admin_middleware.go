package middleware

import (
	"strings"

	"chartcraft/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware checks if the user has admin role. It must run after
// AuthMiddleware.
func AdminMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok || claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if len(claims.Roles) == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: No roles assigned",
			})
		}

		for _, role := range claims.Roles {
			if strings.EqualFold(role, "admin") {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied: Admin role required",
		})
	}
}
