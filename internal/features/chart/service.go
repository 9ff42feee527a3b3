package chart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"chartcraft/internal/common/models"
	"chartcraft/internal/config"
	"chartcraft/internal/database"
	"chartcraft/internal/events"
	"chartcraft/internal/features/dataset"
	"chartcraft/pkg/transform"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLimit       = 10
	unknownDatasetName = "Unknown Dataset"
)

// ErrInvalidChart is returned for charts that cannot be rendered; it matches
// transform.ErrInvalidConfiguration.
var ErrInvalidChart = fmt.Errorf("%w: invalid chart", transform.ErrInvalidConfiguration)

var ErrInvalidShareType = errors.New("invalid share type")

type ChartService interface {
	CreateChart(ctx context.Context, chart *Chart) error
	// CreateForDataset stores a chart for an already loaded dataset.
	CreateForDataset(ctx context.Context, columns []models.Column, chart *Chart) error
	GetChart(ctx context.Context, id string) (*Chart, error)
	ListCharts(ctx context.Context, limit int, datasetID string) ([]ListItem, error)
	UpdateChart(ctx context.Context, id string, chart *Chart) (*Chart, error)
	DeleteChart(ctx context.Context, id string) error
	GetChartData(ctx context.Context, id string) (*ChartData, error)
	ShareChart(ctx context.Context, id string, req ShareRequest) (*Share, error)
	ExportChart(ctx context.Context, id string, format string) (*Export, error)
	// SweepOrphans deletes charts whose dataset no longer exists.
	SweepOrphans(ctx context.Context) (int64, error)
	Totals(ctx context.Context) (Totals, error)
}

type ChartServiceImpl struct {
	ChartRepo   ChartRepository
	DatasetRepo dataset.DatasetRepository
	Events      events.Publisher
	Logger      *zap.Logger
	Config      *config.Config
}

func NewChartService(chartRepo ChartRepository, datasetRepo dataset.DatasetRepository, publisher events.Publisher, logger *zap.Logger, cfg *config.Config) ChartService {
	return &ChartServiceImpl{
		ChartRepo:   chartRepo,
		DatasetRepo: datasetRepo,
		Events:      publisher,
		Logger:      logger,
		Config:      cfg,
	}
}

func (s *ChartServiceImpl) CreateChart(ctx context.Context, chart *Chart) error {
	if chart.DatasetID == "" {
		return fmt.Errorf("%w: datasetId is required", ErrInvalidChart)
	}
	ds, err := s.DatasetRepo.Get(ctx, chart.DatasetID)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", chart.DatasetID, err)
	}
	return s.CreateForDataset(ctx, ds.Columns, chart)
}

func (s *ChartServiceImpl) CreateForDataset(ctx context.Context, columns []models.Column, chart *Chart) error {
	if err := validateChart(chart, columns); err != nil {
		return err
	}

	now := time.Now().UTC()
	chart.ID = uuid.NewString()
	chart.Views = 0
	chart.CreatedAt = now
	chart.UpdatedAt = now

	if err := s.ChartRepo.Create(ctx, chart); err != nil {
		return err
	}

	s.Logger.Info("Chart created",
		zap.String("chartId", chart.ID),
		zap.String("datasetId", chart.DatasetID),
		zap.String("type", string(chart.Type)))
	s.Events.Publish(events.Event{
		Type:      events.ChartCreated,
		DatasetID: chart.DatasetID,
		ChartID:   chart.ID,
		Payload:   chart,
	})
	return nil
}

func validateChart(chart *Chart, columns []models.Column) error {
	if strings.TrimSpace(chart.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidChart)
	}
	if !chart.Type.Valid() {
		return fmt.Errorf("%w: unknown chart type %q", ErrInvalidChart, chart.Type)
	}
	if columns == nil {
		return nil
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c.Name] = true
	}
	for _, name := range chart.Config.Columns() {
		if !known[name] {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidChart, name)
		}
	}
	return nil
}

func (s *ChartServiceImpl) GetChart(ctx context.Context, id string) (*Chart, error) {
	return s.ChartRepo.Get(ctx, id)
}

// ListCharts resolves the dataset name of every chart.
func (s *ChartServiceImpl) ListCharts(ctx context.Context, limit int, datasetID string) ([]ListItem, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	charts, err := s.ChartRepo.List(ctx, limit, datasetID)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	items := make([]ListItem, 0, len(charts))
	for _, c := range charts {
		name, ok := names[c.DatasetID]
		if !ok {
			name = unknownDatasetName
			if ds, err := s.DatasetRepo.Get(ctx, c.DatasetID); err == nil {
				name = ds.Name
			}
			names[c.DatasetID] = name
		}
		items = append(items, ListItem{
			ID:          c.ID,
			Name:        c.Name,
			Type:        c.Type,
			DatasetID:   c.DatasetID,
			DatasetName: name,
			Views:       c.Views,
			CreatedAt:   c.CreatedAt,
		})
	}
	return items, nil
}

// UpdateChart replaces name, type, config and insights. The dataset link is
// fixed at creation.
func (s *ChartServiceImpl) UpdateChart(ctx context.Context, id string, update *Chart) (*Chart, error) {
	current, err := s.ChartRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var columns []models.Column
	if ds, err := s.DatasetRepo.Get(ctx, current.DatasetID); err == nil {
		columns = ds.Columns
	}

	current.Name = update.Name
	current.Type = update.Type
	current.Config = update.Config
	current.Insights = update.Insights
	if err := validateChart(current, columns); err != nil {
		return nil, err
	}
	current.UpdatedAt = time.Now().UTC()

	if err := s.ChartRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	s.Events.Publish(events.Event{
		Type:      events.ChartUpdated,
		DatasetID: current.DatasetID,
		ChartID:   current.ID,
		Payload:   current,
	})
	return current, nil
}

func (s *ChartServiceImpl) DeleteChart(ctx context.Context, id string) error {
	current, err := s.ChartRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ChartRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Chart deleted", zap.String("chartId", id), zap.String("datasetId", current.DatasetID))
	s.Events.Publish(events.Event{Type: events.ChartDeleted, DatasetID: current.DatasetID, ChartID: id})
	return nil
}

// GetChartData transforms the dataset rows through the chart config and
// counts the view.
func (s *ChartServiceImpl) GetChartData(ctx context.Context, id string) (*ChartData, error) {
	chart, ds, data, err := s.render(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ChartRepo.IncrementViews(ctx, id); err != nil {
		s.Logger.Warn("Failed to count chart view", zap.String("chartId", id), zap.Error(err))
	} else {
		chart.Views++
	}

	return &ChartData{
		Chart: chart,
		Data:  data,
		Dataset: DatasetInfo{
			Name:    ds.Name,
			Columns: ds.Columns,
		},
	}, nil
}

func (s *ChartServiceImpl) render(ctx context.Context, id string) (*Chart, *dataset.Dataset, []models.Row, error) {
	chart, err := s.ChartRepo.Get(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	ds, err := s.DatasetRepo.Get(ctx, chart.DatasetID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dataset %s of chart %s: %w", chart.DatasetID, id, err)
	}
	data, err := transform.Transform(ds.Rows, &chart.Config)
	if err != nil {
		return nil, nil, nil, err
	}
	return chart, ds, data, nil
}

func (s *ChartServiceImpl) ShareChart(ctx context.Context, id string, req ShareRequest) (*Share, error) {
	chart, err := s.ChartRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildShare(s.Config.AppURL, chart, req)
}

func (s *ChartServiceImpl) ExportChart(ctx context.Context, id string, format string) (*Export, error) {
	chart, ds, data, err := s.render(ctx, id)
	if err != nil {
		return nil, err
	}
	return renderExport(chart, exportHeader(&chart.Config, ds.Columns, data), data, format)
}

func (s *ChartServiceImpl) SweepOrphans(ctx context.Context) (int64, error) {
	ids, err := s.ChartRepo.DatasetIDs(ctx)
	if err != nil {
		return 0, err
	}
	existing, err := s.DatasetRepo.Exists(ctx, ids)
	if err != nil {
		return 0, err
	}

	var orphaned []string
	for _, id := range ids {
		if !existing[id] {
			orphaned = append(orphaned, id)
		}
	}
	if len(orphaned) == 0 {
		return 0, nil
	}

	n, err := s.ChartRepo.DeleteByDatasets(ctx, orphaned)
	if err != nil {
		return 0, err
	}
	s.Logger.Info("Removed orphaned charts", zap.Int64("charts", n), zap.Strings("datasets", orphaned))
	return n, nil
}

func (s *ChartServiceImpl) Totals(ctx context.Context) (Totals, error) {
	return s.ChartRepo.Totals(ctx)
}

// exportHeader orders export columns: aggregated series use groupBy, yAxis
// and count; raw rows follow the dataset columns.
func exportHeader(cfg *models.ChartConfig, columns []models.Column, data []models.Row) []string {
	if cfg.GroupBy != "" && cfg.YAxis != "" && cfg.Aggregation != "" {
		return slices.Compact([]string{cfg.GroupBy, cfg.YAxis, transform.CountKey})
	}
	header := make([]string, 0, len(columns))
	for _, c := range columns {
		header = append(header, c.Name)
	}
	if len(header) == 0 && len(data) > 0 {
		for k := range data[0] {
			header = append(header, k)
		}
		slices.Sort(header)
	}
	return header
}

// IsNotFound reports whether err means the chart or its dataset is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
