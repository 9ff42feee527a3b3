package dataset

import (
	"context"
	"errors"

	"chartcraft/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDatasetRepository struct {
	Collection *mongo.Collection
	Charts     *mongo.Collection
}

// EnsureIndexes creates the indexes used by List and the chart cascade.
func (r *MongoDatasetRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}); err != nil {
		return err
	}
	_, err := r.Charts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "dataset_id", Value: 1}},
	})
	return err
}

func (r *MongoDatasetRepository) Create(ctx context.Context, ds *Dataset) error {
	_, err := r.Collection.InsertOne(ctx, ds)
	return err
}

func (r *MongoDatasetRepository) Get(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ds)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *MongoDatasetRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.Charts.Name(),
			"localField":   "_id",
			"foreignField": "dataset_id",
			"as":           "charts",
		}}},
		{{Key: "$project", Value: bson.M{
			"name":         1,
			"description":  1,
			"row_count":    1,
			"column_count": 1,
			"created_at":   1,
			"chart_count":  bson.M{"$size": "$charts"},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []Summary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *MongoDatasetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	// Leftovers from a failed cascade are removed by the orphan sweep
	_, err = r.Charts.DeleteMany(ctx, bson.M{"dataset_id": id})
	return err
}

func (r *MongoDatasetRepository) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		found[doc.ID] = true
	}
	return found, cursor.Err()
}

func (r *MongoDatasetRepository) Totals(ctx context.Context) (Totals, error) {
	cursor, err := r.Collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"datasets": bson.M{"$sum": 1},
			"rows":     bson.M{"$sum": "$row_count"},
		}}},
	})
	if err != nil {
		return Totals{}, err
	}
	defer cursor.Close(ctx)

	var out struct {
		Datasets int64 `bson:"datasets"`
		Rows     int64 `bson:"rows"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&out); err != nil {
			return Totals{}, err
		}
	}
	return Totals{Datasets: out.Datasets, Rows: out.Rows}, cursor.Err()
}
