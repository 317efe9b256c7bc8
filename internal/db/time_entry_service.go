package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// GetTimeEntries returns a task's entries oldest first
func GetTimeEntries(ctx context.Context, taskID uint) ([]models.TimeEntry, error) {
	if ok, err := exists[models.Task](ctx, taskID); err != nil {
		return nil, apperrors.NewDatabaseError("check task", err)
	} else if !ok {
		return nil, apperrors.NewNotFoundError("task", taskID)
	}
	return loadEntries(DB.WithContext(ctx), taskID)
}

func loadEntries(tx *gorm.DB, taskID uint) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	if err := tx.Where("task_id = ?", taskID).Order("start_time ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list time entries", err)
	}
	return entries, nil
}

// Stopwatch rebuilds the stopwatch of a task from its stored entries,
// resuming a running entry if there is one
func Stopwatch(ctx context.Context, taskID uint) (*timetrack.Stopwatch, error) {
	entries, err := GetTimeEntries(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return timetrack.NewStopwatch(taskID, entries, Clock), nil
}

// StartTimer opens a time entry for a task. A task that is Pendiente or
// Pausada moves to En Progreso.
func StartTimer(ctx context.Context, taskID uint) (*models.TimeEntry, error) {
	var started models.TimeEntry
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			return translate(err, "task", taskID, "get task")
		}
		if task.Status == models.StatusCompleted {
			return apperrors.NewValidationError("task is already completed; reopen it first", nil).
				WithContext("task_id", taskID)
		}

		entries, err := loadEntries(tx, taskID)
		if err != nil {
			return err
		}
		sw := timetrack.NewStopwatch(taskID, entries, Clock)
		entry, ok := sw.Start()
		if !ok {
			return apperrors.NewConflictError("a timer is already running for this task").
				WithContext("task_id", taskID)
		}
		if err := tx.Create(&entry).Error; err != nil {
			return apperrors.NewDatabaseError("create time entry", err)
		}

		if task.Status.CanTransition(models.StatusInProgress) {
			task.Status = models.StatusInProgress
			if err := tx.Save(&task).Error; err != nil {
				return apperrors.NewDatabaseError("update task status", err)
			}
		}
		started = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &started, nil
}

// StopTimer closes the running entry of a task
func StopTimer(ctx context.Context, taskID uint, notes string) (*models.TimeEntry, error) {
	var closed models.TimeEntry
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := existsTx[models.Task](tx, taskID); err != nil {
			return apperrors.NewDatabaseError("check task", err)
		} else if !ok {
			return apperrors.NewNotFoundError("task", taskID)
		}
		entry, stopped, err := stopTimerTx(tx, taskID, notes)
		if err != nil {
			return err
		}
		if !stopped {
			return apperrors.NewConflictError("no timer is running for this task").
				WithContext("task_id", taskID)
		}
		closed = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &closed, nil
}

// stopTimerTx closes the open entry of a task if there is one
func stopTimerTx(tx *gorm.DB, taskID uint, notes string) (models.TimeEntry, bool, error) {
	entries, err := loadEntries(tx, taskID)
	if err != nil {
		return models.TimeEntry{}, false, err
	}
	sw := timetrack.NewStopwatch(taskID, entries, Clock)
	entry, ok := sw.Stop(notes)
	if !ok {
		return models.TimeEntry{}, false, nil
	}
	if err := tx.Save(&entry).Error; err != nil {
		return models.TimeEntry{}, false, apperrors.NewDatabaseError("close time entry", err)
	}
	return entry, true, nil
}

func existsTx[T any](tx *gorm.DB, id uint) (bool, error) {
	var count int64
	var row T
	if err := tx.Model(&row).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RunningEntry is an open entry with its task
type RunningEntry struct {
	Entry   models.TimeEntry
	Task    models.Task
	Elapsed time.Duration
}

// GetRunningEntries lists every open entry across tasks
func GetRunningEntries(ctx context.Context) ([]RunningEntry, error) {
	var entries []models.TimeEntry
	if err := DB.WithContext(ctx).Where("end_time IS NULL").Order("start_time ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list running entries", err)
	}

	running := make([]RunningEntry, 0, len(entries))
	for _, e := range entries {
		var task models.Task
		if err := DB.WithContext(ctx).First(&task, e.TaskID).Error; err != nil {
			// entries of deleted tasks are skipped
			continue
		}
		sw := timetrack.NewStopwatch(task.ID, []models.TimeEntry{e}, Clock)
		running = append(running, RunningEntry{Entry: e, Task: task, Elapsed: sw.Tick()})
	}
	return running, nil
}

// GetEntriesInRange returns closed entries that started in [from, to)
func GetEntriesInRange(ctx context.Context, from, to time.Time) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := DB.WithContext(ctx).
		Where("start_time >= ? AND start_time < ? AND end_time IS NOT NULL", from, to).
		Order("start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list time entries", err)
	}
	return entries, nil
}
