package system

import (
	"context"
	"time"

	"chartcraft/internal/common/api"
	"chartcraft/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	Store *database.Store
}

func NewHealthApi(store *database.Store) api.Route {
	return &HealthApi{Store: store}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.Health)
}

// Health godoc
// @Summary Health check
// @Description Reports whether the store is reachable
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthApi) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(pingCtx); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"store":  h.Store.Driver,
			"error":  err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{"status": "ok", "store": h.Store.Driver})
}
