package chart

import (
	"errors"
	"fmt"

	"chartcraft/internal/database"
	"chartcraft/internal/middleware"
	"chartcraft/pkg/transform"

	"github.com/gofiber/fiber/v2"
)

type ChartController struct {
	ChartService ChartService
}

func NewChartController(chartService ChartService) *ChartController {
	return &ChartController{ChartService: chartService}
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, transform.ErrInvalidConfiguration):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidShareType), errors.Is(err, ErrUnsupportedExport):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(ctx *fiber.Ctx, err error, notFound string) error {
	code := errorStatus(err)
	msg := err.Error()
	if code == fiber.StatusNotFound {
		msg = notFound
	}
	return ctx.Status(code).JSON(fiber.Map{"error": msg})
}

// Create godoc
// @Summary Create chart
// @Description Create a chart on a dataset
// @Tags charts
// @Accept json
// @Produce json
// @Param chart body Chart true "Chart"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/charts [post]
func (c *ChartController) Create(ctx *fiber.Ctx) error {
	var ch Chart
	if err := ctx.BodyParser(&ch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	ch.CreatedBy = middleware.CurrentUserID(ctx)

	if err := c.ChartService.CreateChart(ctx.UserContext(), &ch); err != nil {
		return fail(ctx, err, "Dataset not found")
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"chart": ch})
}

// List godoc
// @Summary List charts
// @Description List the newest charts with their dataset names
// @Tags charts
// @Produce json
// @Param limit query int false "Maximum number of charts" default(10)
// @Param datasetId query string false "Only charts of this dataset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/charts [get]
func (c *ChartController) List(ctx *fiber.Ctx) error {
	charts, err := c.ChartService.ListCharts(ctx.UserContext(), ctx.QueryInt("limit", defaultLimit), ctx.Query("datasetId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"charts": charts})
}

// Get godoc
// @Summary Get chart
// @Tags charts
// @Produce json
// @Param id path string true "Chart ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/charts/{id} [get]
func (c *ChartController) Get(ctx *fiber.Ctx) error {
	ch, err := c.ChartService.GetChart(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.JSON(fiber.Map{"chart": ch})
}

// Update godoc
// @Summary Update chart
// @Description Replace the name, type, config and insights of a chart
// @Tags charts
// @Accept json
// @Produce json
// @Param id path string true "Chart ID"
// @Param chart body Chart true "Chart"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/charts/{id} [put]
func (c *ChartController) Update(ctx *fiber.Ctx) error {
	var ch Chart
	if err := ctx.BodyParser(&ch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := c.ChartService.UpdateChart(ctx.UserContext(), ctx.Params("id"), &ch)
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.JSON(fiber.Map{"chart": updated})
}

// Delete godoc
// @Summary Delete chart
// @Tags charts
// @Param id path string true "Chart ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Router /api/charts/{id} [delete]
func (c *ChartController) Delete(ctx *fiber.Ctx) error {
	if err := c.ChartService.DeleteChart(ctx.UserContext(), ctx.Params("id")); err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// GetData godoc
// @Summary Get chart data
// @Description Group, aggregate and sort the dataset rows per the chart config
// @Tags charts
// @Produce json
// @Param id path string true "Chart ID"
// @Success 200 {object} ChartData
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/charts/{id}/data [get]
func (c *ChartController) GetData(ctx *fiber.Ctx) error {
	data, err := c.ChartService.GetChartData(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.JSON(data)
}

// Share godoc
// @Summary Share chart
// @Description Build a public link, embed code or social links for a chart
// @Tags charts
// @Accept json
// @Produce json
// @Param id path string true "Chart ID"
// @Param share body ShareRequest true "Share type and embed size"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/charts/{id}/share [post]
func (c *ChartController) Share(ctx *fiber.Ctx) error {
	var req ShareRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	share, err := c.ChartService.ShareChart(ctx.UserContext(), ctx.Params("id"), req)
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.JSON(fiber.Map{"success": true, "share": share})
}

type exportRequest struct {
	Format string `json:"format"`
}

// Export godoc
// @Summary Export chart
// @Description Prepare a download of the chart series
// @Tags charts
// @Accept json
// @Produce json
// @Param id path string true "Chart ID"
// @Param export body exportRequest true "csv, json or xlsx"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/charts/{id}/export [post]
func (c *ChartController) Export(ctx *fiber.Ctx) error {
	var req exportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id := ctx.Params("id")
	exp, err := c.ChartService.ExportChart(ctx.UserContext(), id, req.Format)
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"export": fiber.Map{
			"chartId":     id,
			"format":      req.Format,
			"filename":    exp.Filename,
			"size":        len(exp.Body),
			"downloadUrl": fmt.Sprintf("/api/charts/%s/download?format=%s", id, req.Format),
		},
	})
}

// Download godoc
// @Summary Download chart
// @Description Download the chart series as a file
// @Tags charts
// @Produce octet-stream
// @Param id path string true "Chart ID"
// @Param format query string false "csv, json or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/charts/{id}/download [get]
func (c *ChartController) Download(ctx *fiber.Ctx) error {
	exp, err := c.ChartService.ExportChart(ctx.UserContext(), ctx.Params("id"), ctx.Query("format", ExportCSV))
	if err != nil {
		return fail(ctx, err, "Chart not found")
	}
	ctx.Attachment(exp.Filename)
	ctx.Set(fiber.HeaderContentType, exp.ContentType)
	return ctx.Send(exp.Body)
}
