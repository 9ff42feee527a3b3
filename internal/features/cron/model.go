package cron_feature

import (
	"context"
	"time"
)

// Run statuses
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Job is a built-in maintenance task. Run reports how many records it changed.
type Job struct {
	Name        string
	Description string
	Schedule    string
	Run         func(ctx context.Context) (int64, error)
}

// CronJob is the state of a registered job as shown by the API.
type CronJob struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Schedule    string     `json:"schedule"`
	Active      bool       `json:"active"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastStatus  string     `json:"last_status,omitempty"`
}

// CronJobLog represents a single execution of a cron job
type CronJobLog struct {
	ID              string     `json:"id" bson:"_id"`
	CronJobName     string     `json:"cron_job_name" bson:"cron_job_name"`
	StartTime       time.Time  `json:"start_time" bson:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status          string     `json:"status" bson:"status"`
	RecordsAffected int64      `json:"records_affected" bson:"records_affected"`
	Error           string     `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
}
