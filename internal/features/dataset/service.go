package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chartcraft/internal/events"
	"chartcraft/pkg/table"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	previewRows  = 5
	defaultLimit = 10
)

var ErrEmptyUpload = errors.New("no file provided")

// UploadInput is one uploaded file.
type UploadInput struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
	UserID      string
}

type DatasetService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	GetDataset(ctx context.Context, id string) (*Dataset, error)
	ListDatasets(ctx context.Context, limit int) ([]Summary, error)
	DeleteDataset(ctx context.Context, id string) error
	Totals(ctx context.Context) (Totals, error)
}

type DatasetServiceImpl struct {
	Repo   DatasetRepository
	Events events.Publisher
	Logger *zap.Logger
}

func NewDatasetService(repo DatasetRepository, publisher events.Publisher, logger *zap.Logger) DatasetService {
	return &DatasetServiceImpl{
		Repo:   repo,
		Events: publisher,
		Logger: logger,
	}
}

// Upload parses the file, infers its columns and stores the result.
func (s *DatasetServiceImpl) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	parsed, err := table.Parse(in.Data, table.Hint{Filename: in.Filename, ContentType: in.ContentType})
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = in.Filename
	}
	fileType := in.ContentType
	if fileType == "" {
		fileType = string(parsed.Format)
	}

	now := time.Now().UTC()
	ds := &Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: fmt.Sprintf("Uploaded %s file with %d rows", fileType, len(parsed.Rows)),
		Format:      string(parsed.Format),
		Rows:        parsed.Rows,
		Columns:     parsed.Columns,
		RowCount:    len(parsed.Rows),
		ColumnCount: len(parsed.Columns),
		CreatedBy:   in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}

	s.Logger.Info("Dataset uploaded",
		zap.String("datasetId", ds.ID),
		zap.String("format", ds.Format),
		zap.Int("rows", ds.RowCount),
		zap.Int("columns", ds.ColumnCount))

	return &UploadResult{
		ID:          ds.ID,
		Name:        ds.Name,
		Description: ds.Description,
		RowCount:    ds.RowCount,
		ColumnCount: ds.ColumnCount,
		Columns:     ds.Columns,
		Preview:     ds.Rows[:min(previewRows, len(ds.Rows))],
	}, nil
}

func (s *DatasetServiceImpl) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	return s.Repo.Get(ctx, id)
}

func (s *DatasetServiceImpl) ListDatasets(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.Repo.List(ctx, limit)
}

// DeleteDataset removes the dataset together with its charts.
func (s *DatasetServiceImpl) DeleteDataset(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Dataset deleted", zap.String("datasetId", id))
	s.Events.Publish(events.Event{Type: events.DatasetDeleted, DatasetID: id})
	return nil
}

func (s *DatasetServiceImpl) Totals(ctx context.Context) (Totals, error) {
	return s.Repo.Totals(ctx)
}
