package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormSearchRunRepository implements SearchRunRepository using GORM.
type GormSearchRunRepository struct {
	db *gorm.DB
}

// NewGormSearchRunRepository creates a new GormSearchRunRepository.
func NewGormSearchRunRepository(db *gorm.DB) *GormSearchRunRepository {
	return &GormSearchRunRepository{db: db}
}

// CreateRun inserts a new round row and fills in its ID.
func (r *GormSearchRunRepository) CreateRun(ctx context.Context, run *SearchRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create search run: %w", err)
	}
	return nil
}

// FinishRun records the final verdict, task counts, and duration of a round.
func (r *GormSearchRunRepository) FinishRun(ctx context.Context, id int64, verdict string, taskCount, solvedTaskCount int, duration time.Duration) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&SearchRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verdict":           verdict,
			"task_count":        taskCount,
			"solved_task_count": solvedTaskCount,
			"duration_millis":   duration.Milliseconds(),
			"finished_at":       now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to finish search run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("search run not found: %d", id)
	}

	return nil
}

// GetRun retrieves a round by its ID.
func (r *GormSearchRunRepository) GetRun(ctx context.Context, id int64) (*SearchRun, error) {
	var run SearchRun

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("search run not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get search run: %w", err)
	}

	return &run, nil
}

// ListRunsByRootBC retrieves every recorded round for a given root bc,
// most recent first.
func (r *GormSearchRunRepository) ListRunsByRootBC(ctx context.Context, rootBC string, limit int) ([]*SearchRun, error) {
	var runs []*SearchRun

	q := r.db.WithContext(ctx).Where("root_bc = ?", rootBC).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list search runs: %w", err)
	}

	return runs, nil
}

// GormTaskVerdictRepository implements TaskVerdictRepository using GORM.
type GormTaskVerdictRepository struct {
	db *gorm.DB
}

// NewGormTaskVerdictRepository creates a new GormTaskVerdictRepository.
func NewGormTaskVerdictRepository(db *gorm.DB) *GormTaskVerdictRepository {
	return &GormTaskVerdictRepository{db: db}
}

// CreateVerdict inserts a pending task-verdict row.
func (r *GormTaskVerdictRepository) CreateVerdict(ctx context.Context, v *TaskVerdict) error {
	if v.Status == "" {
		v.Status = TaskVerdictPending
	}
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create task verdict: %w", err)
	}
	return nil
}

// CompleteVerdict records a resolved task's outcome.
func (r *GormTaskVerdictRepository) CompleteVerdict(ctx context.Context, id int64, verdict string, duration time.Duration) error {
	result := r.db.WithContext(ctx).
		Model(&TaskVerdict{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          TaskVerdictCompleted,
			"verdict":         verdict,
			"duration_millis": duration.Milliseconds(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete task verdict: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task verdict not found: %d", id)
	}

	return nil
}

// GetVerdictsByRun retrieves every task verdict recorded for a round.
func (r *GormTaskVerdictRepository) GetVerdictsByRun(ctx context.Context, runID int64) ([]*TaskVerdict, error) {
	var verdicts []*TaskVerdict

	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Find(&verdicts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list task verdicts: %w", err)
	}

	return verdicts, nil
}

// ClaimStaleVerdicts reclaims rows left "running" by a crashed process.
func (r *GormTaskVerdictRepository) ClaimStaleVerdicts(ctx context.Context, runID int64) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&TaskVerdict{}).
		Where("run_id = ? AND status = ?", runID, TaskVerdictRunning).
		Update("status", TaskVerdictPending)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to claim stale task verdicts: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}
