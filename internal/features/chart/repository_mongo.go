package chart

import (
	"context"
	"errors"

	"chartcraft/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoChartRepository struct {
	Collection *mongo.Collection
}

func (r *MongoChartRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoChartRepository) Create(ctx context.Context, chart *Chart) error {
	_, err := r.Collection.InsertOne(ctx, chart)
	return err
}

func (r *MongoChartRepository) Get(ctx context.Context, id string) (*Chart, error) {
	var chart Chart
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&chart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chart, nil
}

func (r *MongoChartRepository) List(ctx context.Context, limit int, datasetID string) ([]Chart, error) {
	filter := bson.M{}
	if datasetID != "" {
		filter["dataset_id"] = datasetID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	charts := []Chart{}
	if err := cursor.All(ctx, &charts); err != nil {
		return nil, err
	}
	return charts, nil
}

func (r *MongoChartRepository) Update(ctx context.Context, chart *Chart) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": chart.ID}, bson.M{
		"$set": bson.M{
			"name":       chart.Name,
			"type":       chart.Type,
			"config":     chart.Config,
			"insights":   chart.Insights,
			"updated_at": chart.UpdatedAt,
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoChartRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoChartRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoChartRepository) DatasetIDs(ctx context.Context) ([]string, error) {
	values, err := r.Collection.Distinct(ctx, "dataset_id", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MongoChartRepository) DeleteByDatasets(ctx context.Context, datasetIDs []string) (int64, error) {
	if len(datasetIDs) == 0 {
		return 0, nil
	}
	res, err := r.Collection.DeleteMany(ctx, bson.M{"dataset_id": bson.M{"$in": datasetIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoChartRepository) Totals(ctx context.Context) (Totals, error) {
	cursor, err := r.Collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"charts": bson.M{"$sum": 1},
			"views":  bson.M{"$sum": "$views"},
		}}},
	})
	if err != nil {
		return Totals{}, err
	}
	defer cursor.Close(ctx)

	var t Totals
	if cursor.Next(ctx) {
		var out struct {
			Charts int64 `bson:"charts"`
			Views  int64 `bson:"views"`
		}
		if err := cursor.Decode(&out); err != nil {
			return Totals{}, err
		}
		t = Totals{Charts: out.Charts, Views: out.Views}
	}
	return t, cursor.Err()
}
