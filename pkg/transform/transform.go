// Package transform turns stored rows plus a chart configuration into the
// ordered series a chart renders.
package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"chartcraft/internal/common/models"
	"chartcraft/pkg/coltype"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrInvalidConfiguration is returned when the chart configuration itself is
// unusable. Bad cells never produce it.
var ErrInvalidConfiguration = errors.New("invalid chart configuration")

// CountKey names the per-bucket count of coercible values.
const CountKey = "count"

// DecodeConfig reads a stored chart configuration. The payload must be a JSON
// object.
func DecodeConfig(raw []byte) (*models.ChartConfig, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: config must be a JSON object", ErrInvalidConfiguration)
	}
	var cfg models.ChartConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}

// Transform groups and aggregates rows when the config names groupBy,
// aggregation and yAxis, then sorts the result by xAxis when one is set.
// The input slice and its rows are left untouched.
func Transform(rows []models.Row, cfg *models.ChartConfig) ([]models.Row, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}

	var out []models.Row
	if cfg.GroupBy != "" && cfg.Aggregation != "" && cfg.YAxis != "" {
		out = aggregate(rows, cfg.GroupBy, cfg.YAxis, cfg.Aggregation)
	} else {
		out = make([]models.Row, len(rows))
		copy(out, rows)
	}

	if cfg.XAxis != "" && len(out) > 0 {
		sortByAxis(out, cfg.XAxis)
	}
	return out, nil
}

type bucket struct {
	key    any
	values []float64
}

func aggregate(rows []models.Row, groupBy, yAxis string, agg models.Aggregation) []models.Row {
	index := make(map[any]int)
	var buckets []*bucket

	for _, row := range rows {
		key := row[groupBy]
		id := coltype.Key(key)
		i, ok := index[id]
		if !ok {
			i = len(buckets)
			index[id] = i
			buckets = append(buckets, &bucket{key: key})
		}
		if n, ok := coltype.ToMeasure(row[yAxis]); ok {
			buckets[i].values = append(buckets[i].values, n)
		}
	}

	out := make([]models.Row, 0, len(buckets))
	for _, b := range buckets {
		rec := models.Row{}
		rec[groupBy] = b.key
		rec[yAxis] = reduce(b.values, agg)
		rec[CountKey] = len(b.values)
		out = append(out, rec)
	}
	return out
}

func reduce(values []float64, agg models.Aggregation) float64 {
	if len(values) == 0 {
		return 0
	}
	switch agg {
	case models.AggregationAverage:
		return sum(values) / float64(len(values))
	case models.AggregationCount:
		return float64(len(values))
	case models.AggregationMin:
		m := math.Inf(1)
		for _, v := range values {
			m = math.Min(m, v)
		}
		return m
	case models.AggregationMax:
		m := math.Inf(-1)
		for _, v := range values {
			m = math.Max(m, v)
		}
		return m
	default:
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func sortByAxis(records []models.Row, axis string) {
	c := collate.New(language.Und)
	slices.SortStableFunc(records, func(a, b models.Row) int {
		return compare(c, a, b, axis)
	})
}

func compare(c *collate.Collator, a, b models.Row, axis string) int {
	av, aok := a[axis]
	bv, bok := b[axis]

	if aok && bok && coltype.IsNumber(av) && coltype.IsNumber(bv) {
		x, _ := coltype.ToNumber(av)
		y, _ := coltype.ToNumber(bv)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	if at, ok := av.(time.Time); ok {
		if bt, ok := bv.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return c.CompareString(label(av, aok), label(bv, bok))
}

func label(v any, present bool) string {
	if !present {
		return "undefined"
	}
	return coltype.String(v)
}
