package chart

import (
	"time"

	"chartcraft/internal/common/models"
)

type Chart struct {
	ID        string             `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	Type      models.ChartType   `json:"type" bson:"type"`
	DatasetID string             `json:"datasetId" bson:"dataset_id"`
	Config    models.ChartConfig `json:"config" bson:"config"`
	Insights  string             `json:"insights,omitempty" bson:"insights,omitempty"`
	Views     int                `json:"views" bson:"views"`
	CreatedBy string             `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ListItem is a chart as shown in listings, with its dataset's name.
type ListItem struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        models.ChartType `json:"type"`
	DatasetID   string           `json:"datasetId"`
	DatasetName string           `json:"datasetName"`
	Views       int              `json:"views"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ChartData is a chart with its transformed series.
type ChartData struct {
	Chart   *Chart       `json:"chart"`
	Data    []models.Row `json:"data"`
	Dataset DatasetInfo  `json:"dataset"`
}

type DatasetInfo struct {
	Name    string          `json:"name"`
	Columns []models.Column `json:"columns"`
}

type Totals struct {
	Charts int64 `json:"charts"`
	Views  int64 `json:"views"`
}

// Share types
const (
	ShareTypePublicLink = "public_link"
	ShareTypeEmbed      = "embed"
	ShareTypeSocial     = "social"
)

type ShareRequest struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type Share struct {
	ChartID     string            `json:"chartId"`
	Type        string            `json:"type"`
	URL         string            `json:"url,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	EmbedCode   string            `json:"embedCode,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Platforms   map[string]string `json:"platforms,omitempty"`
}

// Export formats
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

// Export is a rendered download of a chart's series.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}
