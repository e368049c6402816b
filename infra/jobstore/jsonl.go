package jobstore

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kilianp07/roadcast/core/jobs"
)

// JSONLStore appends one JSON document per saved job. A job saved twice is
// resolved to its latest line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file at path if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

// Save appends j to the file.
func (s *JSONLStore) Save(_ context.Context, j jobs.Job) error {
	if j.ID == "" {
		return fmt.Errorf("save job: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(j)
}

// readAll returns the latest version of every job in file order. Unreadable
// lines are skipped.
func (s *JSONLStore) readAll(ctx context.Context) ([]jobs.Job, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	index := map[string]int{}
	var res []jobs.Job
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var j jobs.Job
		if err := json.Unmarshal(scanner.Bytes(), &j); err != nil || j.ID == "" {
			continue
		}
		if i, ok := index[j.ID]; ok {
			res[i] = j
			continue
		}
		index[j.ID] = len(res)
		res = append(res, j)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns the job with id or jobs.ErrNotFound.
func (s *JSONLStore) Get(ctx context.Context, id string) (jobs.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAll(ctx)
	if err != nil {
		return jobs.Job{}, err
	}
	for _, j := range all {
		if j.ID == id {
			return j, nil
		}
	}
	return jobs.Job{}, fmt.Errorf("%w: %s", jobs.ErrNotFound, id)
}

// List implements jobs.Store.
func (s *JSONLStore) List(ctx context.Context, q jobs.Query) ([]jobs.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return jobs.Page(all, q), nil
}

// Close is a no-op; the file is opened per operation.
func (s *JSONLStore) Close() error { return nil }
