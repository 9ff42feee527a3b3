package chart

import (
	"chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ChartApi struct {
	ChartController *ChartController
	Config          *config.Config
}

func NewChartApi(chartController *ChartController, cfg *config.Config) api.Route {
	return &ChartApi{
		ChartController: chartController,
		Config:          cfg,
	}
}

func (api *ChartApi) Setup(app *fiber.App) {
	group := app.Group("/api/charts", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.ChartController.Create)
	group.Get("/", api.ChartController.List)
	group.Get("/:id", api.ChartController.Get)
	group.Put("/:id", api.ChartController.Update)
	group.Delete("/:id", api.ChartController.Delete)
	group.Get("/:id/data", api.ChartController.GetData)
	group.Post("/:id/share", api.ChartController.Share)
	group.Post("/:id/export", api.ChartController.Export)
	group.Get("/:id/download", api.ChartController.Download)
}
