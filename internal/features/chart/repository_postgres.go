package chart

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

type PostgresChartRepository struct {
	DB *sql.DB
}

const chartColumns = `id, name, type, COALESCE(dataset_id::text, ''), config, COALESCE(insights, ''), views, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChart(s rowScanner) (*Chart, error) {
	var (
		c   Chart
		raw []byte
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Type, &c.DatasetID, &raw, &c.Insights, &c.Views, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &c.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config of chart %s: %w", c.ID, err)
	}
	return &c, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresChartRepository) Create(ctx context.Context, chart *Chart) error {
	cfg, err := json.Marshal(chart.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO charts (id, name, type, dataset_id, config, insights, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		chart.ID, chart.Name, chart.Type, nullable(chart.DatasetID), cfg, nullable(chart.Insights),
		chart.Views, chart.CreatedAt, chart.UpdatedAt)
	return err
}

func (r *PostgresChartRepository) Get(ctx context.Context, id string) (*Chart, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, database.ErrNotFound
	}
	c, err := scanChart(r.DB.QueryRowContext(ctx, `SELECT `+chartColumns+` FROM charts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	return c, err
}

func (r *PostgresChartRepository) List(ctx context.Context, limit int, datasetID string) ([]Chart, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if datasetID != "" {
		if _, perr := uuid.Parse(datasetID); perr != nil {
			return []Chart{}, nil
		}
		rows, err = r.DB.QueryContext(ctx, `SELECT `+chartColumns+` FROM charts
			WHERE dataset_id = $1 ORDER BY created_at DESC LIMIT $2`, datasetID, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx, `SELECT `+chartColumns+` FROM charts
			ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charts := []Chart{}
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, *c)
	}
	return charts, rows.Err()
}

func (r *PostgresChartRepository) Update(ctx context.Context, chart *Chart) error {
	if _, err := uuid.Parse(chart.ID); err != nil {
		return database.ErrNotFound
	}
	cfg, err := json.Marshal(chart.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE charts SET name = $2, type = $3, config = $4, insights = $5, updated_at = $6
		WHERE id = $1`,
		chart.ID, chart.Name, chart.Type, cfg, nullable(chart.Insights), chart.UpdatedAt)
	return affected(res, err)
}

func (r *PostgresChartRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return database.ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM charts WHERE id = $1`, id)
	return affected(res, err)
}

func (r *PostgresChartRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return database.ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE charts SET views = views + 1 WHERE id = $1`, id)
	return affected(res, err)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *PostgresChartRepository) DatasetIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT dataset_id::text FROM charts WHERE dataset_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresChartRepository) DeleteByDatasets(ctx context.Context, datasetIDs []string) (int64, error) {
	if len(datasetIDs) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM charts WHERE dataset_id = ANY($1::uuid[])`, pq.Array(datasetIDs))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostgresChartRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(views), 0) FROM charts`).Scan(&t.Charts, &t.Views)
	return t, err
}
