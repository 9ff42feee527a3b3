package dataset

import (
	"errors"
	"io"

	"chartcraft/internal/database"
	"chartcraft/internal/middleware"
	"chartcraft/pkg/table"

	"github.com/gofiber/fiber/v2"
)

type DatasetController struct {
	DatasetService DatasetService
}

func NewDatasetController(datasetService DatasetService) *DatasetController {
	return &DatasetController{DatasetService: datasetService}
}

// Upload godoc
// @Summary Upload dataset
// @Description Parse a CSV, TSV, JSON or XLSX file, infer its column types and store it
// @Tags datasets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Data file"
// @Param name formData string false "Dataset name, defaults to the file name"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/datasets [post]
func (c *DatasetController) Upload(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
	}

	f, err := fh.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read file"})
	}

	result, err := c.DatasetService.Upload(ctx.UserContext(), UploadInput{
		Name:        ctx.FormValue("name"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		UserID:      middleware.CurrentUserID(ctx),
	})
	if err != nil {
		return ctx.Status(uploadStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"dataset": result,
	})
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, table.ErrUnsupportedFormat),
		errors.Is(err, table.ErrMalformedInput),
		errors.Is(err, ErrEmptyUpload):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// List godoc
// @Summary List datasets
// @Description List the newest datasets with row, column and chart counts
// @Tags datasets
// @Produce json
// @Param limit query int false "Maximum number of datasets" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/datasets [get]
func (c *DatasetController) List(ctx *fiber.Ctx) error {
	datasets, err := c.DatasetService.ListDatasets(ctx.UserContext(), ctx.QueryInt("limit", defaultLimit))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch datasets"})
	}
	return ctx.JSON(fiber.Map{"datasets": datasets})
}

// Get godoc
// @Summary Get dataset
// @Description Get a dataset with its rows and columns
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/datasets/{id} [get]
func (c *DatasetController) Get(ctx *fiber.Ctx) error {
	ds, err := c.DatasetService.GetDataset(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dataset not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"dataset": ds})
}

// Delete godoc
// @Summary Delete dataset
// @Description Delete a dataset and every chart built on it
// @Tags datasets
// @Param id path string true "Dataset ID"
// @Success 204 {object} nil
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/datasets/{id} [delete]
func (c *DatasetController) Delete(ctx *fiber.Ctx) error {
	err := c.DatasetService.DeleteDataset(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Dataset not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
