package generate

import (
	"errors"

	"chartcraft/internal/database"
	"chartcraft/pkg/recommendation"

	"github.com/gofiber/fiber/v2"
)

type GenerateController struct {
	GenerateService GenerateService
}

func NewGenerateController(generateService GenerateService) *GenerateController {
	return &GenerateController{GenerateService: generateService}
}

// Generate godoc
// @Summary Generate charts
// @Description Ask the recommender for charts on a dataset and save the valid ones
// @Tags charts
// @Accept json
// @Produce json
// @Param request body generateRequest true "Dataset to analyze"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/charts/generate [post]
func (c *GenerateController) Generate(ctx *fiber.Ctx) error {
	var req generateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.DatasetID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Dataset ID is required"})
	}

	res, err := c.GenerateService.Generate(ctx.UserContext(), req.DatasetID)
	if err != nil {
		var apiErr *recommendation.APIError
		switch {
		case errors.Is(err, database.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dataset not found"})
		case errors.Is(err, recommendation.ErrNotConfigured):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, recommendation.ErrSchemaViolation):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &apiErr):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "AI service error: " + apiErr.Message})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate chart recommendations"})
	}

	return ctx.JSON(fiber.Map{
		"success":         true,
		"recommendations": res.Recommendations,
		"insights":        res.Insights,
		"charts":          res.Charts,
		"rejected":        res.Rejected,
	})
}

// Summary godoc
// @Summary Dataset column summaries
// @Description One line per column as sent to the recommender
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/datasets/{id}/summary [get]
func (c *GenerateController) Summary(ctx *fiber.Ctx) error {
	summaries, err := c.GenerateService.Summary(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dataset not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"summary": summaries})
}
