package cron_feature

import (
	"context"
	"encoding/json"
	"slices"

	"chartcraft/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const logsCollection = "cron_job_logs"

// CronRepository keeps the run history of jobs.
type CronRepository interface {
	CreateLog(ctx context.Context, log *CronJobLog) error
	UpdateLog(ctx context.Context, log *CronJobLog) error
	GetLogs(ctx context.Context, jobName string, limit int) ([]CronJobLog, error)
}

// NewCronRepository stores run history in Mongo when it is the active store and
// in process memory otherwise.
func NewCronRepository(store *database.Store) CronRepository {
	if store.Mongo != nil {
		return &MongoCronRepository{logCollection: store.Mongo.Collection(logsCollection)}
	}
	db := store.Memory
	if db == nil {
		db = database.NewMemoryDB()
	}
	return &MemoryCronRepository{DB: db}
}

type MongoCronRepository struct {
	logCollection *mongo.Collection
}

func (r *MongoCronRepository) CreateLog(ctx context.Context, log *CronJobLog) error {
	_, err := r.logCollection.InsertOne(ctx, log)
	return err
}

func (r *MongoCronRepository) UpdateLog(ctx context.Context, log *CronJobLog) error {
	_, err := r.logCollection.UpdateOne(ctx, bson.M{"_id": log.ID}, bson.M{"$set": log})
	return err
}

func (r *MongoCronRepository) GetLogs(ctx context.Context, jobName string, limit int) ([]CronJobLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.logCollection.Find(ctx, bson.M{"cron_job_name": jobName}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []CronJobLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

type MemoryCronRepository struct {
	DB *database.MemoryDB
}

func (r *MemoryCronRepository) CreateLog(ctx context.Context, log *CronJobLog) error {
	return r.DB.Put(logsCollection, log.ID, log.CronJobName, log)
}

func (r *MemoryCronRepository) UpdateLog(ctx context.Context, log *CronJobLog) error {
	return r.DB.Update(logsCollection, log.ID, func([]byte) (any, error) {
		return log, nil
	})
}

func (r *MemoryCronRepository) GetLogs(ctx context.Context, jobName string, limit int) ([]CronJobLog, error) {
	logs := []CronJobLog{}
	err := r.DB.QueryByParent(logsCollection, jobName, func(raw []byte) error {
		var l CronJobLog
		if err := json.Unmarshal(raw, &l); err != nil {
			return err
		}
		logs = append(logs, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
