package system

import (
	"chartcraft/internal/features/chart"
	"chartcraft/internal/features/dataset"

	"github.com/gofiber/fiber/v2"
)

type Stats struct {
	TotalDatasets int64 `json:"totalDatasets"`
	TotalCharts   int64 `json:"totalCharts"`
	TotalRows     int64 `json:"totalRows"`
	TotalViews    int64 `json:"totalViews"`
}

type AnalyticsController struct {
	DatasetService dataset.DatasetService
	ChartService   chart.ChartService
}

func NewAnalyticsController(datasetService dataset.DatasetService, chartService chart.ChartService) *AnalyticsController {
	return &AnalyticsController{DatasetService: datasetService, ChartService: chartService}
}

// GetStats godoc
// @Summary Dashboard stats
// @Description Totals across every dataset and chart
// @Tags stats
// @Produce json
// @Success 200 {object} Stats
// @Failure 500 {object} map[string]interface{}
// @Router /api/stats [get]
func (a *AnalyticsController) GetStats(ctx *fiber.Ctx) error {
	datasets, err := a.DatasetService.Totals(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	charts, err := a.ChartService.Totals(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(Stats{
		TotalDatasets: datasets.Datasets,
		TotalCharts:   charts.Charts,
		TotalRows:     datasets.Rows,
		TotalViews:    charts.Views,
	})
}
