package cron_feature

import (
	"chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	cronController *CronController
	config         *config.Config
}

func NewCronApi(cronController *CronController, config *config.Config) api.Route {
	return &CronApi{
		cronController: cronController,
		config:         config,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	jobs := app.Group("/api/jobs", middleware.AuthMiddleware(h.config.SkipAuth))

	jobs.Get("/", h.cronController.ListCronJobs)
	jobs.Post("/:name/run", middleware.AdminMiddleware(h.config.SkipAuth), h.cronController.ExecuteCronJob)
	jobs.Get("/:name/logs", h.cronController.GetCronJobLogs)
}
