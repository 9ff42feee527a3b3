package chart

import (
	"context"
	"encoding/json"
	"slices"

	"chartcraft/internal/database"
)

type MemoryChartRepository struct {
	DB *database.MemoryDB
}

func (r *MemoryChartRepository) Create(ctx context.Context, chart *Chart) error {
	return r.DB.Put(database.ChartsCollection, chart.ID, chart.DatasetID, chart)
}

func (r *MemoryChartRepository) Get(ctx context.Context, id string) (*Chart, error) {
	var c Chart
	if err := r.DB.Get(database.ChartsCollection, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MemoryChartRepository) all(datasetID string) ([]Chart, error) {
	charts := []Chart{}
	err := r.DB.QueryByParent(database.ChartsCollection, datasetID, func(raw []byte) error {
		var c Chart
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		charts = append(charts, c)
		return nil
	})
	return charts, err
}

func (r *MemoryChartRepository) List(ctx context.Context, limit int, datasetID string) ([]Chart, error) {
	charts, err := r.all(datasetID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(charts)
	slices.SortStableFunc(charts, func(a, b Chart) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(charts) > limit {
		charts = charts[:limit]
	}
	return charts, nil
}

func (r *MemoryChartRepository) Update(ctx context.Context, chart *Chart) error {
	return r.DB.Update(database.ChartsCollection, chart.ID, func(raw []byte) (any, error) {
		var c Chart
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		c.Name = chart.Name
		c.Type = chart.Type
		c.Config = chart.Config
		c.Insights = chart.Insights
		c.UpdatedAt = chart.UpdatedAt
		return c, nil
	})
}

func (r *MemoryChartRepository) Delete(ctx context.Context, id string) error {
	return r.DB.Delete(database.ChartsCollection, id)
}

func (r *MemoryChartRepository) IncrementViews(ctx context.Context, id string) error {
	return r.DB.Update(database.ChartsCollection, id, func(raw []byte) (any, error) {
		var c Chart
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		c.Views++
		return c, nil
	})
}

func (r *MemoryChartRepository) DatasetIDs(ctx context.Context) ([]string, error) {
	charts, err := r.all("")
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var ids []string
	for _, c := range charts {
		if c.DatasetID != "" && !seen[c.DatasetID] {
			seen[c.DatasetID] = true
			ids = append(ids, c.DatasetID)
		}
	}
	return ids, nil
}

func (r *MemoryChartRepository) DeleteByDatasets(ctx context.Context, datasetIDs []string) (int64, error) {
	var n int64
	for _, id := range datasetIDs {
		n += int64(r.DB.DeleteByParent(database.ChartsCollection, id))
	}
	return n, nil
}

func (r *MemoryChartRepository) Totals(ctx context.Context) (Totals, error) {
	charts, err := r.all("")
	if err != nil {
		return Totals{}, err
	}
	t := Totals{Charts: int64(len(charts))}
	for _, c := range charts {
		t.Views += int64(c.Views)
	}
	return t, nil
}
