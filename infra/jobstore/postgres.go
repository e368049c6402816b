package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/kilianp07/roadcast/core/jobs"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS prediction_jobs (
	id             TEXT PRIMARY KEY,
	road_id        INTEGER NOT NULL,
	segment_name   TEXT NOT NULL,
	base_time      BIGINT NOT NULL,
	horizon_steps  INTEGER NOT NULL,
	predictor_type TEXT NOT NULL,
	cost_ms        BIGINT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	points         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS prediction_jobs_road_created ON prediction_jobs (road_id, created_at DESC);`

// jobRow maps a prediction_jobs row; points are stored as JSONB.
type jobRow struct {
	jobs.Job
	PointsJSON []byte `db:"points"`
}

func (r jobRow) toJob() (jobs.Job, error) {
	j := r.Job
	if err := json.Unmarshal(r.PointsJSON, &j.Points); err != nil {
		return jobs.Job{}, fmt.Errorf("unmarshal points of %s: %w", j.ID, err)
	}
	return j, nil
}

// PostgresStore persists jobs to PostgreSQL through sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s, err := NewPostgresStoreFromDB(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB uses an existing connection pool.
func NewPostgresStoreFromDB(ctx context.Context, db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Save inserts j or replaces the stored version.
func (s *PostgresStore) Save(ctx context.Context, j jobs.Job) error {
	if j.ID == "" {
		return fmt.Errorf("save job: empty id")
	}
	points, err := json.Marshal(j.Points)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO prediction_jobs (
			id, road_id, segment_name, base_time, horizon_steps,
			predictor_type, cost_ms, created_at, points
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			road_id = EXCLUDED.road_id,
			segment_name = EXCLUDED.segment_name,
			base_time = EXCLUDED.base_time,
			horizon_steps = EXCLUDED.horizon_steps,
			predictor_type = EXCLUDED.predictor_type,
			cost_ms = EXCLUDED.cost_ms,
			created_at = EXCLUDED.created_at,
			points = EXCLUDED.points`
	_, err = s.db.ExecContext(ctx, query,
		j.ID, j.RoadID, j.SegmentName, j.BaseTime, j.HorizonSteps,
		j.PredictorType, j.CostMs, j.CreatedAt, points,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction job: %w", err)
	}
	return nil
}

const selectJobs = `
	SELECT id, road_id, segment_name, base_time, horizon_steps,
	       predictor_type, cost_ms, created_at, points
	FROM prediction_jobs`

// Get returns the job with id or jobs.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id string) (jobs.Job, error) {
	var row jobRow
	err := s.db.GetContext(ctx, &row, selectJobs+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.Job{}, fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
	}
	if err != nil {
		return jobs.Job{}, fmt.Errorf("failed to query prediction job: %w", err)
	}
	return row.toJob()
}

// List returns the jobs matching q, newest first.
func (s *PostgresStore) List(ctx context.Context, q jobs.Query) ([]jobs.Job, error) {
	q = q.Normalize()
	var rows []jobRow
	var err error
	if q.RoadID != nil {
		err = s.db.SelectContext(ctx, &rows,
			selectJobs+` WHERE road_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
			*q.RoadID, q.Limit, q.Offset)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			selectJobs+` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
			q.Limit, q.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction jobs: %w", err)
	}
	out := make([]jobs.Job, 0, len(rows))
	for _, r := range rows {
		j, err := r.toJob()
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }
