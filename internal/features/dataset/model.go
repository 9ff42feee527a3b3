package dataset

import (
	"time"

	"chartcraft/internal/common/models"
)

// Dataset is an uploaded table: its rows plus inferred column descriptors.
type Dataset struct {
	ID          string          `json:"id" bson:"_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Format      string          `json:"format,omitempty" bson:"format,omitempty"`
	Rows        []models.Row    `json:"data" bson:"data"`
	Columns     []models.Column `json:"columns" bson:"columns"`
	RowCount    int             `json:"rowCount" bson:"row_count"`
	ColumnCount int             `json:"columnCount" bson:"column_count"`
	CreatedBy   string          `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updated_at"`
}

// Summary is the list view of a dataset; rows are never loaded for it.
type Summary struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	RowCount    int       `json:"rowCount" bson:"row_count"`
	ColumnCount int       `json:"columnCount" bson:"column_count"`
	ChartCount  int       `json:"chartCount" bson:"chart_count"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Totals aggregates every stored dataset.
type Totals struct {
	Datasets int64 `json:"datasets"`
	Rows     int64 `json:"rows"`
}

// UploadResult is returned to the uploader; Preview holds the first rows.
type UploadResult struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RowCount    int             `json:"rowCount"`
	ColumnCount int             `json:"columnCount"`
	Columns     []models.Column `json:"columns"`
	Preview     []models.Row    `json:"preview"`
}
