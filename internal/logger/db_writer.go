package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chartcraft/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

const logsCollection = "logs"

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	Caller    string
	DatasetID string
	ChartID   string
}

// DBLogWriter persists log entries from a buffered channel on its own goroutine.
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string

	closeOnce sync.Once
	done      chan struct{}
}

// NewDBLogWriter starts the background worker immediately.
func NewDBLogWriter(db *mongo.Database, appId string) *DBLogWriter {
	writer := &DBLogWriter{
		collection: db.Collection(logsCollection),
		logChan:    make(chan LogEntry, 1000),
		appId:      appId,
		done:       make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks the caller; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	defer func() {
		// send on a closed channel during shutdown
		_ = recover()
	}()
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits for the buffer to drain.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.logChan) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := models.Log{
			Level:        entry.Level.String(),
			Message:      entry.Message,
			Caller:       entry.Caller,
			DatasetID:    entry.DatasetID,
			ChartID:      entry.ChartID,
			AppId:        w.appId,
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// errors are ignored to keep the app running
		_, _ = w.collection.InsertOne(ctx, record)
		cancel()
	}
}
