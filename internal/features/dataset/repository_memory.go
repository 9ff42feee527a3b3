package dataset

import (
	"context"
	"encoding/json"
	"slices"

	"chartcraft/internal/database"
)

type MemoryDatasetRepository struct {
	DB *database.MemoryDB
}

func (r *MemoryDatasetRepository) Create(ctx context.Context, ds *Dataset) error {
	return r.DB.Put(database.DatasetsCollection, ds.ID, "", ds)
}

func (r *MemoryDatasetRepository) Get(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	if err := r.DB.Get(database.DatasetsCollection, id, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *MemoryDatasetRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	summaries := []Summary{}
	for _, raw := range r.DB.Scan(database.DatasetsCollection, "") {
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		s.ChartCount = r.DB.Count(database.ChartsCollection, s.ID)
		summaries = append(summaries, s)
	}

	slices.Reverse(summaries)
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (r *MemoryDatasetRepository) Delete(ctx context.Context, id string) error {
	if err := r.DB.Delete(database.DatasetsCollection, id); err != nil {
		return err
	}
	r.DB.DeleteByParent(database.ChartsCollection, id)
	return nil
}

func (r *MemoryDatasetRepository) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	for _, id := range ids {
		var probe struct{}
		if err := r.DB.Get(database.DatasetsCollection, id, &probe); err == nil {
			found[id] = true
		}
	}
	return found, nil
}

func (r *MemoryDatasetRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	for _, raw := range r.DB.Scan(database.DatasetsCollection, "") {
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			return Totals{}, err
		}
		t.Datasets++
		t.Rows += int64(s.RowCount)
	}
	return t, nil
}
