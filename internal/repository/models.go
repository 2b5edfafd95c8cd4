// Package repository provides database abstraction for search-run history:
// one row per completed round and one row per completed task verdict, so
// repeated invocations of the solve command against the same root bc can
// be compared over time.
package repository

import (
	"database/sql/driver"
	"errors"
	"time"
)

// SearchRun represents the search_runs table: one row per round of a
// binstretch search (spec §4.6's generate/dispatch/regrow loop), carrying
// enough of the round's parameters and outcome to reconstruct what ran.
type SearchRun struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	RootBC          string     `gorm:"column:root_bc;type:text;index"`
	Bins            int        `gorm:"column:bins"`
	R               int        `gorm:"column:r"`
	S               int        `gorm:"column:s"`
	Round           int        `gorm:"column:round"`
	Verdict         string     `gorm:"column:verdict;type:varchar(16)"`
	TaskCount       int        `gorm:"column:task_count"`
	SolvedTaskCount int        `gorm:"column:solved_task_count"`
	DurationMillis  int64      `gorm:"column:duration_millis"`
	StartedAt       time.Time  `gorm:"column:started_at"`
	FinishedAt      *time.Time `gorm:"column:finished_at"`
}

// TableName returns the table name for SearchRun.
func (SearchRun) TableName() string {
	return "search_runs"
}

// TaskVerdict represents the task_verdicts table: one row per boundary
// task a round's generator cut off, updated once a worker's minimax
// exploration resolves it.
type TaskVerdict struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID          int64     `gorm:"column:run_id;index"`
	BC             string    `gorm:"column:bc;type:text"`
	Depth          int       `gorm:"column:depth"`
	LoadSinceRoot  int       `gorm:"column:load_since_root"`
	Status         string    `gorm:"column:status;type:varchar(16);index"`
	Verdict        string    `gorm:"column:verdict;type:varchar(16)"`
	DurationMillis int64     `gorm:"column:duration_millis"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for TaskVerdict.
func (TaskVerdict) TableName() string {
	return "task_verdicts"
}

// Task verdict statuses, tracked so a crashed process can resume: rows
// left "running" after a restart are stale and must be reclaimed.
const (
	TaskVerdictPending   = "pending"
	TaskVerdictRunning   = "running"
	TaskVerdictCompleted = "completed"
)

// JSONField is a custom type for handling JSON fields in GORM, kept from
// the teacher's profiling-task models for any future structured column
// without re-deriving the Scan/Value dance.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
