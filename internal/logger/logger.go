package logger

import (
	"context"

	"chartcraft/internal/config"
	"chartcraft/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the application logger. With the Mongo store active every
// entry is also shipped to the logs collection.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, store *database.Store) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Function name is recorded as the caller of persisted entries
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	if store == nil || store.Mongo == nil {
		return baseLogger, nil
	}

	dbWriter := NewDBLogWriter(store.Mongo, cfg.AppId)
	logger := zap.New(NewDBCore(baseLogger.Core(), dbWriter), zap.AddCaller())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return dbWriter.Close(ctx)
		},
	})

	return logger, nil
}
