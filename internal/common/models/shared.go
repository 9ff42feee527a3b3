package models

import "time"

// Row is one record of an uploaded table, keyed by column name.
type Row = map[string]any

// Column Types
type ColumnType string

const (
	ColumnTypeInteger ColumnType = "integer"
	ColumnTypeDecimal ColumnType = "decimal"
	ColumnTypeText    ColumnType = "text"
	ColumnTypeDate    ColumnType = "date"
	ColumnTypeBoolean ColumnType = "boolean"
)

// IsNumeric reports whether values of the column aggregate as numbers.
func (t ColumnType) IsNumeric() bool {
	return t == ColumnTypeInteger || t == ColumnTypeDecimal
}

type Column struct {
	Name        string     `json:"name" bson:"name" yaml:"name"`
	DisplayName string     `json:"displayName" bson:"display_name" yaml:"displayName"`
	Type        ColumnType `json:"type" bson:"type" yaml:"type"`
}

// Chart Types
type ChartType string

const (
	ChartTypeBar       ChartType = "bar"
	ChartTypeLine      ChartType = "line"
	ChartTypePie       ChartType = "pie"
	ChartTypeScatter   ChartType = "scatter"
	ChartTypeArea      ChartType = "area"
	ChartTypeHistogram ChartType = "histogram"
	ChartTypeHeatmap   ChartType = "heatmap"
)

var ChartTypes = []ChartType{
	ChartTypeBar,
	ChartTypeLine,
	ChartTypePie,
	ChartTypeScatter,
	ChartTypeArea,
	ChartTypeHistogram,
	ChartTypeHeatmap,
}

func (t ChartType) Valid() bool {
	for _, c := range ChartTypes {
		if c == t {
			return true
		}
	}
	return false
}

type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
	AggregationCount   Aggregation = "count"
	AggregationMin     Aggregation = "min"
	AggregationMax     Aggregation = "max"
)

var Aggregations = []Aggregation{
	AggregationSum,
	AggregationAverage,
	AggregationCount,
	AggregationMin,
	AggregationMax,
}

func (a Aggregation) Valid() bool {
	for _, k := range Aggregations {
		if k == a {
			return true
		}
	}
	return false
}

// ChartConfig drives the data transformation of one chart. Title, Description,
// Reasoning and Confidence are only filled for AI-recommended charts.
type ChartConfig struct {
	XAxis       string      `json:"xAxis,omitempty" bson:"x_axis,omitempty" yaml:"xAxis,omitempty"`
	YAxis       string      `json:"yAxis,omitempty" bson:"y_axis,omitempty" yaml:"yAxis,omitempty"`
	GroupBy     string      `json:"groupBy,omitempty" bson:"group_by,omitempty" yaml:"groupBy,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty" bson:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	Colors      []string    `json:"colors,omitempty" bson:"colors,omitempty" yaml:"colors,omitempty"`
	Title       string      `json:"title,omitempty" bson:"title,omitempty" yaml:"title,omitempty"`
	Description string      `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Reasoning   string      `json:"reasoning,omitempty" bson:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Confidence  *float64    `json:"confidence,omitempty" bson:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Columns returns the distinct column names the config refers to.
func (c ChartConfig) Columns() []string {
	var out []string
	seen := map[string]bool{}
	for _, name := range []string{c.XAxis, c.YAxis, c.GroupBy} {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Log is a persisted log line written by the logger's store sink.
type Log struct {
	Level        string    `bson:"level" json:"level"`
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	DatasetID    string    `bson:"dataset_id,omitempty" json:"dataset_id,omitempty"`
	ChartID      string    `bson:"chart_id,omitempty" json:"chart_id,omitempty"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
