package system

import (
	"chartcraft/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentUser godoc
// @Summary      Get current user info
// @Description  Get the current user's info from JWT
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No user in context"})
	}

	return ctx.JSON(fiber.Map{
		"user_id": claims.UserID,
		"roles":   claims.Roles,
		"message": "This is your current JWT token data",
	})
}
