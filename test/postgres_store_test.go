//go:build integration

package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/jobs"
	"github.com/kilianp07/roadcast/infra/jobstore"
	"github.com/kilianp07/roadcast/test/util"
)

func TestPostgresStore(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	dsn, cleanup, err := util.StartPostgres(ctx)
	if err != nil {
		t.Skipf("unable to start postgres: %v", err)
	}
	defer cleanup()

	store, err := jobstore.New(jobstore.Config{Backend: "postgres", DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.Save(ctx, sampleJob(i, 100+i%2)))
	}

	got, err := store.Get(ctx, "it-02")
	require.NoError(t, err)
	assert.Equal(t, 100, got.RoadID)
	require.Len(t, got.Points, 1)
	assert.InDelta(t, 33.5, got.Points[0].PredictedSpeed, 1e-9)

	_, err = store.Get(ctx, "absent")
	assert.ErrorIs(t, err, jobs.ErrNotFound)

	road := 101
	list, err := store.List(ctx, jobs.Query{RoadID: &road})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "it-03", list[0].ID)
	assert.Equal(t, "it-01", list[1].ID)

	again := sampleJob(1, 101)
	again.CostMs = 42
	require.NoError(t, store.Save(ctx, again))
	got, err = store.Get(ctx, "it-01")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.CostMs)
}
