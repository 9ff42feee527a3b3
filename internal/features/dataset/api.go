package dataset

import (
	"chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DatasetApi struct {
	DatasetController *DatasetController
	Config            *config.Config
}

func NewDatasetApi(datasetController *DatasetController, cfg *config.Config) api.Route {
	return &DatasetApi{
		DatasetController: datasetController,
		Config:            cfg,
	}
}

func (api *DatasetApi) Setup(app *fiber.App) {
	group := app.Group("/api/datasets", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.DatasetController.Upload)
	group.Get("/", api.DatasetController.List)
	group.Get("/:id", api.DatasetController.Get)
	group.Delete("/:id", api.DatasetController.Delete)
}
