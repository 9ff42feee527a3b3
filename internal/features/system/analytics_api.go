package system

import (
	"chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsApi struct {
	Controller *AnalyticsController
	Config     *config.Config
}

func NewAnalyticsApi(controller *AnalyticsController, cfg *config.Config) api.Route {
	return &AnalyticsApi{Controller: controller, Config: cfg}
}

func (a *AnalyticsApi) Setup(app *fiber.App) {
	app.Get("/api/stats", middleware.AuthMiddleware(a.Config.SkipAuth), a.Controller.GetStats)
}
