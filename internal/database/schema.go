package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	data JSONB NOT NULL,
	columns JSONB NOT NULL,
	row_count INTEGER NOT NULL DEFAULT 0,
	column_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS charts (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	dataset_id UUID REFERENCES datasets(id) ON DELETE CASCADE,
	config JSONB NOT NULL DEFAULT '{}',
	insights TEXT,
	views INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_charts_created_at ON charts(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_charts_dataset_id ON charts(dataset_id);
`

// EnsureSchema creates the datasets and charts tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
