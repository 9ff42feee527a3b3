package cron_feature

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{
		Service: service,
	}
}

// ListCronJobs godoc
// @Summary List cron jobs
// @Description List the built-in maintenance jobs with their schedule and last run
// @Tags cron
// @Produce json
// @Success 200 {array} CronJob
// @Router /api/jobs [get]
func (c *CronController) ListCronJobs(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.ListCronJobs(ctx.UserContext()))
}

// ExecuteCronJob godoc
// @Summary Run cron job
// @Description Run a job immediately
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Success 200 {object} CronJobLog
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/jobs/{name}/run [post]
func (c *CronController) ExecuteCronJob(ctx *fiber.Ctx) error {
	run, err := c.Service.ExecuteCronJob(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cron job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "run": run})
	}
	return ctx.JSON(run)
}

// GetCronJobLogs godoc
// @Summary Cron job runs
// @Description Most recent runs of a job, newest first
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Param limit query int false "Maximum number of runs" default(50)
// @Success 200 {array} CronJobLog
// @Failure 404 {object} map[string]interface{}
// @Router /api/jobs/{name}/logs [get]
func (c *CronController) GetCronJobLogs(ctx *fiber.Ctx) error {
	logs, err := c.Service.GetCronJobLogs(ctx.UserContext(), ctx.Params("name"), ctx.QueryInt("limit", 50))
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cron job not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(logs)
}
