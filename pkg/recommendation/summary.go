// Package recommendation prepares datasets for the chart recommender and
// checks what it sends back.
package recommendation

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/coltype"
)

// ColumnSummary is the one-line description of a column sent to the recommender.
type ColumnSummary struct {
	Column  models.Column `json:"column"`
	Summary string        `json:"summary"`
}

// BuildSummary describes every column of the dataset from all of its rows.
func BuildSummary(columns []models.Column, rows []models.Row) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		values := make([]any, 0, len(rows))
		for _, row := range rows {
			if v, ok := row[col.Name]; ok && !coltype.IsEmpty(v) {
				values = append(values, v)
			}
		}
		out = append(out, ColumnSummary{Column: col, Summary: summarize(values, col.Type)})
	}
	return out
}

func summarize(values []any, typ models.ColumnType) string {
	if len(values) == 0 {
		return "No data"
	}

	switch typ {
	case models.ColumnTypeInteger, models.ColumnTypeDecimal:
		return summarizeNumbers(values)
	case models.ColumnTypeText:
		return summarizeText(values)
	case models.ColumnTypeDate:
		return summarizeDates(values)
	case models.ColumnTypeBoolean:
		var trues int
		for _, v := range values {
			if v == true || v == "true" {
				trues++
			}
		}
		return fmt.Sprintf("True: %d, False: %d", trues, len(values)-trues)
	}
	return fmt.Sprintf("%d values", len(values))
}

func summarizeNumbers(values []any) string {
	var n int
	var sum float64
	lowest, highest := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		f, ok := coltype.ToNumber(v)
		if !ok {
			continue
		}
		n++
		sum += f
		lowest = math.Min(lowest, f)
		highest = math.Max(highest, f)
	}
	if n == 0 {
		return "No numeric data"
	}
	return fmt.Sprintf("Range: %s to %s, Average: %s",
		coltype.String(lowest), coltype.String(highest), fixed2(sum/float64(n)))
}

func fixed2(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return coltype.String(f)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// summarizeText counts distinct values; ties for most common go to the value
// seen first.
func summarizeText(values []any) string {
	counts := map[any]int{}
	var order []any
	for _, v := range values {
		k := coltype.Key(v)
		if counts[k] == 0 {
			order = append(order, v)
		}
		counts[k]++
	}

	best, bestCount := order[0], 0
	for _, v := range order {
		if c := counts[coltype.Key(v)]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return fmt.Sprintf("%d unique values, most common: %s", len(order), coltype.String(best))
}

func summarizeDates(values []any) string {
	var lowest, highest time.Time
	found := false
	for _, v := range values {
		t, ok := coltype.ParseDate(v)
		if !ok {
			continue
		}
		if !found || t.Before(lowest) {
			lowest = t
		}
		if !found || t.After(highest) {
			highest = t
		}
		found = true
	}
	if !found {
		return "No valid dates"
	}
	return fmt.Sprintf("Range: %s to %s", lowest.Format("1/2/2006"), highest.Format("1/2/2006"))
}
