package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"chartcraft/internal/database"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresDatasetRepository struct {
	DB *sql.DB
}

func (r *PostgresDatasetRepository) Create(ctx context.Context, ds *Dataset) error {
	data, err := json.Marshal(ds.Rows)
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	columns, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode columns: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO datasets (id, name, description, data, columns, row_count, column_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		ds.ID, ds.Name, ds.Description, data, columns, ds.RowCount, ds.ColumnCount, ds.CreatedAt, ds.UpdatedAt)
	return err
}

func (r *PostgresDatasetRepository) Get(ctx context.Context, id string) (*Dataset, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, database.ErrNotFound
	}

	var (
		ds            Dataset
		description   sql.NullString
		data, columns []byte
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, data, columns, row_count, column_count, created_at, updated_at
		FROM datasets WHERE id = $1`, id).
		Scan(&ds.ID, &ds.Name, &description, &data, &columns, &ds.RowCount, &ds.ColumnCount, &ds.CreatedAt, &ds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ds.Description = description.String
	if err := json.Unmarshal(data, &ds.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows of dataset %s: %w", id, err)
	}
	if err := json.Unmarshal(columns, &ds.Columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns of dataset %s: %w", id, err)
	}
	return &ds, nil
}

func (r *PostgresDatasetRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT d.id, d.name, COALESCE(d.description, ''), d.row_count, d.column_count, d.created_at,
			(SELECT COUNT(*) FROM charts c WHERE c.dataset_id = d.id)
		FROM datasets d
		ORDER BY d.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.RowCount, &s.ColumnCount, &s.CreatedAt, &s.ChartCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Delete relies on ON DELETE CASCADE for the charts.
func (r *PostgresDatasetRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return database.ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *PostgresDatasetRepository) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	found := make(map[string]bool, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return found, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM datasets WHERE id = ANY($1::uuid[])`, pq.Array(valid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}

func (r *PostgresDatasetRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(row_count), 0) FROM datasets`).
		Scan(&t.Datasets, &t.Rows)
	return t, err
}
