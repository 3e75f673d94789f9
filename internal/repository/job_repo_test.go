package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/testutil"
)

func TestJobRepository_FailStuckRunning(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	repo := NewJobRepository(db)

	staleStart := time.Now().Add(-2 * time.Hour)
	freshStart := time.Now().Add(-time.Minute)

	stuck := &model.AnalysisJob{
		ProjectID: 1, UserID: 1,
		JobType:     model.JobTypeCodeAnalysis,
		Status:      model.JobStatusRunning,
		CodeContent: "x", FilePath: "a.ts",
		StartedAt: &staleStart,
	}
	healthy := &model.AnalysisJob{
		ProjectID: 1, UserID: 1,
		JobType:     model.JobTypeCodeAnalysis,
		Status:      model.JobStatusRunning,
		CodeContent: "x", FilePath: "a.ts",
		StartedAt: &freshStart,
	}
	pending := &model.AnalysisJob{
		ProjectID: 1, UserID: 1,
		JobType:     model.JobTypeCodeAnalysis,
		Status:      model.JobStatusPending,
		CodeContent: "x", FilePath: "a.ts",
	}
	require.NoError(t, repo.Create(stuck))
	require.NoError(t, repo.Create(healthy))
	require.NoError(t, repo.Create(pending))

	failed, err := repo.FailStuckRunning(time.Now().Add(-30 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)

	got, err := repo.GetByID(stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, got.Status)
	assert.Equal(t, "job exceeded running timeout", got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)

	// 未超时的 running 和 pending 不受影响
	got, err = repo.GetByID(healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusRunning, got.Status)

	got, err = repo.GetByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
}

func TestJobRepository_ResultRoundtrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	repo := NewJobRepository(db)

	job := &model.AnalysisJob{
		ProjectID: 1, UserID: 1,
		JobType:     model.JobTypeCodeAnalysis,
		Status:      model.JobStatusCompleted,
		CodeContent: "x", FilePath: "a.ts",
		Result: model.JSONMap{"complexity_score": 25.0, "suggestions_count": 2.0},
	}
	require.NoError(t, repo.Create(job))

	got, err := repo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Result["complexity_score"])
	assert.Equal(t, 2.0, got.Result["suggestions_count"])
}
