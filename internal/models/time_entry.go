package models

import (
	"time"
)

// TimeEntry is one tracked interval of work on a task.
// An entry with a nil EndTime is open: the task's timer is running.
type TimeEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TaskID     uint       `gorm:"not null;index" json:"task_id"`
	StartTime  time.Time  `gorm:"not null" json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	DurationMs int64      `json:"duration_ms"` // final once EndTime is set
	Notes      string     `json:"notes"`
}

// IsOpen reports whether the entry is still being tracked
func (e TimeEntry) IsOpen() bool {
	return e.EndTime == nil
}

// Duration returns the stored duration
func (e TimeEntry) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}
