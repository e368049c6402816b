package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/roadcast/core/jobs"
)

// SQLiteStore persists jobs to a SQLite database. The full job is kept as a
// JSON document next to the indexed columns used for filtering and ordering.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS prediction_jobs (
        id TEXT PRIMARY KEY,
        road_id INTEGER NOT NULL,
        created_at INTEGER NOT NULL,
        record TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS prediction_jobs_road ON prediction_jobs (road_id, created_at);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts or replaces j.
func (s *SQLiteStore) Save(ctx context.Context, j jobs.Job) error {
	if j.ID == "" {
		return fmt.Errorf("save job: empty id")
	}
	b, err := json.Marshal(j)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO prediction_jobs (id, road_id, created_at, record) VALUES (?, ?, ?, ?)`,
		j.ID, j.RoadID, j.CreatedAt.UnixNano(), string(b))
	return err
}

// Get returns the job with id or jobs.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (jobs.Job, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM prediction_jobs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.Job{}, fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
	}
	if err != nil {
		return jobs.Job{}, err
	}
	var j jobs.Job
	if err := json.Unmarshal([]byte(data), &j); err != nil {
		return jobs.Job{}, fmt.Errorf("unmarshal job: %w", err)
	}
	return j, nil
}

// List returns the jobs matching q, newest first.
func (s *SQLiteStore) List(ctx context.Context, q jobs.Query) ([]jobs.Job, error) {
	q = q.Normalize()
	var args []any
	query := `SELECT record FROM prediction_jobs WHERE 1=1`
	if q.RoadID != nil {
		query += ` AND road_id = ?`
		args = append(args, *q.RoadID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []jobs.Job{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var j jobs.Job
		if err := json.Unmarshal([]byte(data), &j); err != nil {
			return nil, fmt.Errorf("unmarshal job: %w", err)
		}
		res = append(res, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
