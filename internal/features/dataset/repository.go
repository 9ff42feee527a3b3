package dataset

import (
	"context"

	"chartcraft/internal/config"
	"chartcraft/internal/database"
)

type DatasetRepository interface {
	Create(ctx context.Context, ds *Dataset) error
	Get(ctx context.Context, id string) (*Dataset, error)
	// List returns the newest datasets first with their chart counts.
	List(ctx context.Context, limit int) ([]Summary, error)
	// Delete removes the dataset and every chart built on it.
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, ids []string) (map[string]bool, error)
	Totals(ctx context.Context) (Totals, error)
}

// NewDatasetRepository returns the implementation for the configured store.
func NewDatasetRepository(store *database.Store) DatasetRepository {
	switch store.Driver {
	case config.StorePostgres:
		return &PostgresDatasetRepository{DB: store.SQL}
	case config.StoreMemory:
		return &MemoryDatasetRepository{DB: store.Memory}
	default:
		return &MongoDatasetRepository{
			Collection: store.Mongo.Collection(database.DatasetsCollection),
			Charts:     store.Mongo.Collection(database.ChartsCollection),
		}
	}
}
