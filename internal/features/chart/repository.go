package chart

import (
	"context"

	"chartcraft/internal/config"
	"chartcraft/internal/database"
)

type ChartRepository interface {
	Create(ctx context.Context, chart *Chart) error
	Get(ctx context.Context, id string) (*Chart, error)
	// List returns the newest charts first, optionally only those of one dataset.
	List(ctx context.Context, limit int, datasetID string) ([]Chart, error)
	Update(ctx context.Context, chart *Chart) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	// DatasetIDs lists the distinct datasets referenced by charts.
	DatasetIDs(ctx context.Context) ([]string, error)
	DeleteByDatasets(ctx context.Context, datasetIDs []string) (int64, error)
	Totals(ctx context.Context) (Totals, error)
}

func NewChartRepository(store *database.Store) ChartRepository {
	switch store.Driver {
	case config.StorePostgres:
		return &PostgresChartRepository{DB: store.SQL}
	case config.StoreMemory:
		return &MemoryChartRepository{DB: store.Memory}
	default:
		return &MongoChartRepository{Collection: store.Mongo.Collection(database.ChartsCollection)}
	}
}
