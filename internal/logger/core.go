package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore tees every entry to the wrapped core and the async store writer.
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
}

func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{Core: c.Core.With(fields), writer: c.writer}
}

func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var datasetID, chartID string
	for _, f := range fields {
		switch f.Key {
		case "datasetId":
			datasetID = f.String
		case "chartId":
			chartID = f.String
		}
	}

	c.writer.AddLog(LogEntry{
		Level:     entry.Level,
		Message:   entry.Message,
		Caller:    entry.Caller.Function,
		DatasetID: datasetID,
		ChartID:   chartID,
	})

	return c.Core.Write(entry, fields)
}

func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
