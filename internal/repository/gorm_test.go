package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&SearchRun{}, &TaskVerdict{})
	require.NoError(t, err)

	return db
}

func TestGormSearchRunRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSearchRunRepository(db)
	ctx := context.Background()

	run := &SearchRun{
		RootBC:    "8/10 20/20 0/0",
		Bins:      3,
		R:         19,
		S:         14,
		Round:     1,
		Verdict:   "uncertain",
		StartedAt: time.Now(),
	}
	require.NoError(t, repo.CreateRun(ctx, run))
	assert.NotZero(t, run.ID)

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.RootBC, got.RootBC)
	assert.Equal(t, 3, got.Bins)

	_, err = repo.GetRun(ctx, 999)
	assert.Error(t, err)
}

func TestGormSearchRunRepository_FinishRun(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSearchRunRepository(db)
	ctx := context.Background()

	run := &SearchRun{RootBC: "8/10 20/20 0/0", Bins: 3, R: 19, S: 14, StartedAt: time.Now()}
	require.NoError(t, repo.CreateRun(ctx, run))

	require.NoError(t, repo.FinishRun(ctx, run.ID, "alg", 12, 12, 5*time.Second))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "alg", got.Verdict)
	assert.Equal(t, 12, got.TaskCount)
	assert.Equal(t, 12, got.SolvedTaskCount)
	assert.Equal(t, int64(5000), got.DurationMillis)
	require.NotNil(t, got.FinishedAt)

	err = repo.FinishRun(ctx, 999, "alg", 1, 1, time.Second)
	assert.Error(t, err)
}

func TestGormSearchRunRepository_ListRunsByRootBC(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSearchRunRepository(db)
	ctx := context.Background()

	rootBC := "8/10 20/20 0/0"
	for i := 0; i < 3; i++ {
		run := &SearchRun{RootBC: rootBC, Bins: 3, R: 19, S: 14, Round: i, StartedAt: time.Now()}
		require.NoError(t, repo.CreateRun(ctx, run))
	}
	require.NoError(t, repo.CreateRun(ctx, &SearchRun{RootBC: "other", Bins: 3, R: 19, S: 14, StartedAt: time.Now()}))

	runs, err := repo.ListRunsByRootBC(ctx, rootBC, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	limited, err := repo.ListRunsByRootBC(ctx, rootBC, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGormTaskVerdictRepository_CreateAndComplete(t *testing.T) {
	db := setupTestDB(t)
	runRepo := NewGormSearchRunRepository(db)
	repo := NewGormTaskVerdictRepository(db)
	ctx := context.Background()

	run := &SearchRun{RootBC: "root", Bins: 3, R: 19, S: 14, StartedAt: time.Now()}
	require.NoError(t, runRepo.CreateRun(ctx, run))

	v := &TaskVerdict{RunID: run.ID, BC: "8/10 20/20 0/0", Depth: 1, LoadSinceRoot: 2}
	require.NoError(t, repo.CreateVerdict(ctx, v))
	assert.Equal(t, TaskVerdictPending, v.Status)

	require.NoError(t, repo.CompleteVerdict(ctx, v.ID, "alg", 250*time.Millisecond))

	verdicts, err := repo.GetVerdictsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, TaskVerdictCompleted, verdicts[0].Status)
	assert.Equal(t, "alg", verdicts[0].Verdict)
	assert.Equal(t, int64(250), verdicts[0].DurationMillis)

	err = repo.CompleteVerdict(ctx, 999, "alg", time.Second)
	assert.Error(t, err)
}

func TestGormTaskVerdictRepository_ClaimStaleVerdicts(t *testing.T) {
	db := setupTestDB(t)
	runRepo := NewGormSearchRunRepository(db)
	repo := NewGormTaskVerdictRepository(db)
	ctx := context.Background()

	run := &SearchRun{RootBC: "root", Bins: 3, R: 19, S: 14, StartedAt: time.Now()}
	require.NoError(t, runRepo.CreateRun(ctx, run))

	stuck := &TaskVerdict{RunID: run.ID, BC: "a", Status: TaskVerdictRunning}
	require.NoError(t, db.Create(stuck).Error)
	pending := &TaskVerdict{RunID: run.ID, BC: "b", Status: TaskVerdictPending}
	require.NoError(t, db.Create(pending).Error)

	n, err := repo.ClaimStaleVerdicts(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	verdicts, err := repo.GetVerdictsByRun(ctx, run.ID)
	require.NoError(t, err)
	for _, v := range verdicts {
		assert.Equal(t, TaskVerdictPending, v.Status)
	}
}
