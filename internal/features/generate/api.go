package generate

import (
	"chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GenerateApi struct {
	GenerateController *GenerateController
	Config             *config.Config
}

func NewGenerateApi(generateController *GenerateController, cfg *config.Config) api.Route {
	return &GenerateApi{
		GenerateController: generateController,
		Config:             cfg,
	}
}

func (api *GenerateApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(api.Config.SkipAuth)

	app.Post("/api/charts/generate", auth, api.GenerateController.Generate)
	app.Get("/api/datasets/:id/summary", auth, api.GenerateController.Summary)
}
