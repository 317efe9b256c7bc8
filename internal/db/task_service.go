package db

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/priority"
	"github.com/agencia-digital/agencia/internal/search"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// TaskRequest holds the data needed to create a new task
type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"` // Alta/Media/Baja, high/medium/low or 3/2/1; empty means Media
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *uint      `json:"project_id"`
	AssigneeID  *uint      `json:"assignee_id"`
}

func (r *TaskRequest) normalize(ctx context.Context) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return apperrors.NewValidationError("task title cannot be empty", nil)
	}

	if strings.TrimSpace(r.Priority) == "" {
		r.Priority = string(priority.TierMedium)
	} else {
		tier, ok := priority.ParseTier(r.Priority)
		if !ok {
			return apperrors.NewInvalidInputError("priority", r.Priority, "use Alta, Media or Baja")
		}
		r.Priority = string(tier)
	}

	if r.ProjectID != nil {
		ok, err := exists[models.Project](ctx, *r.ProjectID)
		if err != nil {
			return apperrors.NewDatabaseError("check project", err)
		}
		if !ok {
			return apperrors.NewNotFoundError("project", *r.ProjectID)
		}
	}
	if r.AssigneeID != nil {
		ok, err := exists[models.Personnel](ctx, *r.AssigneeID)
		if err != nil {
			return apperrors.NewDatabaseError("check assignee", err)
		}
		if !ok {
			return apperrors.NewNotFoundError("personnel", *r.AssigneeID)
		}
	}
	return nil
}

// CreateTask creates a new task in Pendiente
func CreateTask(ctx context.Context, req TaskRequest) (*models.Task, error) {
	if err := req.normalize(ctx); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusPending,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}

	if err := DB.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create task", err)
	}
	return &task, nil
}

// UpdateTask replaces the editable fields of a task. Status changes go
// through SetTaskStatus.
func UpdateTask(ctx context.Context, id uint, req TaskRequest) (*models.Task, error) {
	if err := req.normalize(ctx); err != nil {
		return nil, err
	}
	task, err := getByID[models.Task](ctx, "task", id)
	if err != nil {
		return nil, err
	}
	task.Title = req.Title
	task.Description = req.Description
	task.Priority = req.Priority
	task.DueDate = req.DueDate
	task.ProjectID = req.ProjectID
	task.AssigneeID = req.AssigneeID
	if err := DB.WithContext(ctx).Save(task).Error; err != nil {
		return nil, apperrors.NewDatabaseError("update task", err)
	}
	return task, nil
}

// TaskQueryOptions narrows GetTasks
type TaskQueryOptions struct {
	Status     string
	ProjectID  *uint
	AssigneeID *uint
	Priority   string
	Query      string
	// SortByPriority orders by descending urgency score instead of id
	SortByPriority bool
	Limit          int
}

// ScoredTask is a task with its urgency score at read time
type ScoredTask struct {
	models.Task
	Score priority.Score `json:"score"`
}

// GetTasks lists tasks, each scored against the current clock
func GetTasks(ctx context.Context, opts TaskQueryOptions) ([]ScoredTask, error) {
	q := DB.WithContext(ctx).Preload("Project").Preload("Assignee").Order("id ASC")
	if opts.Status != "" {
		status, err := models.ParseTaskStatus(opts.Status)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("status", opts.Status, err.Error())
		}
		q = q.Where("status = ?", status)
	}
	if opts.ProjectID != nil {
		q = q.Where("project_id = ?", *opts.ProjectID)
	}
	if opts.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *opts.AssigneeID)
	}
	if opts.Priority != "" {
		tier, ok := priority.ParseTier(opts.Priority)
		if !ok {
			return nil, apperrors.NewInvalidInputError("priority", opts.Priority, "use Alta, Media or Baja")
		}
		q = q.Where("priority = ?", tier)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", err)
	}

	tasks = search.Filter(tasks, opts.Query, taskSearchFields)

	now := Clock.Now()
	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		scored = append(scored, ScoredTask{Task: t, Score: priority.ComputeOptional(t.Priority, t.DueDate, now)})
	}
	if opts.SortByPriority {
		priority.Sort(scored, func(s ScoredTask) priority.Score { return s.Score })
	}
	if opts.Limit > 0 && len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}
	return scored, nil
}

// SearchTasks ranks tasks by how strongly query matches
func SearchTasks(ctx context.Context, query string, opts TaskQueryOptions) ([]ScoredTask, error) {
	opts.Query = ""
	opts.SortByPriority = false
	limit := opts.Limit
	opts.Limit = 0

	all, err := GetTasks(ctx, opts)
	if err != nil {
		return nil, err
	}
	ranked := search.Rank(all, query, func(s ScoredTask) []string { return taskSearchFields(s.Task) })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func taskSearchFields(t models.Task) []string {
	fields := []string{t.Title, t.Description, string(t.Status), t.Priority}
	if t.Project != nil {
		fields = append(fields, t.Project.Name)
	}
	if t.Assignee != nil {
		fields = append(fields, t.Assignee.Name)
	}
	return fields
}

// GetTaskByID retrieves a task with its project, assignee and time entries
func GetTaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := DB.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		Preload("TimeEntries", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		First(&task, id).Error
	if err != nil {
		return nil, translate(err, "task", id, "get task")
	}
	return &task, nil
}

// ScoreTask computes the current urgency score of a task
func ScoreTask(task models.Task) priority.Score {
	return priority.ComputeOptional(task.Priority, task.DueDate, Clock.Now())
}

// SetTaskStatus moves a task to status if the transition is legal.
// Completing a task closes its running timer.
func SetTaskStatus(ctx context.Context, id uint, status models.TaskStatus) (*models.Task, error) {
	var task models.Task
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translate(err, "task", id, "get task")
		}
		if !task.Status.CanTransition(status) {
			return apperrors.NewValidationError(
				"cannot move task from "+string(task.Status)+" to "+string(status), nil).
				WithContext("task_id", id)
		}

		if status == models.StatusCompleted {
			if _, _, err := stopTimerTx(tx, id, ""); err != nil {
				return err
			}
			now := Clock.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
		task.Status = status

		if err := tx.Save(&task).Error; err != nil {
			return apperrors.NewDatabaseError("update task status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task together with its time entries
func DeleteTask(ctx context.Context, id uint) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return apperrors.NewDatabaseError("delete task", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewNotFoundError("task", id)
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TimeEntry{}).Error; err != nil {
			return apperrors.NewDatabaseError("delete time entries", err)
		}
		return nil
	})
}

// TrackedTime returns the total recorded time of a task, live time of a
// running entry included
func TrackedTime(task models.Task) time.Duration {
	return timetrack.NewStopwatch(task.ID, task.TimeEntries, Clock).Total()
}

// GetOverdueTasks lists open tasks whose due date is before today, most
// urgent first
func GetOverdueTasks(ctx context.Context) ([]ScoredTask, error) {
	now := Clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var tasks []models.Task
	err := DB.WithContext(ctx).
		Preload("Project").
		Preload("Assignee").
		Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", models.StatusCompleted, today).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("list overdue tasks", err)
	}

	scored := make([]ScoredTask, 0, len(tasks))
	for _, t := range tasks {
		scored = append(scored, ScoredTask{Task: t, Score: priority.ComputeOptional(t.Priority, t.DueDate, now)})
	}
	priority.Sort(scored, func(s ScoredTask) priority.Score { return s.Score })
	return scored, nil
}

// GetTasksByIDs loads the given tasks with their project, deleted ones included
func GetTasksByIDs(ctx context.Context, ids []uint) (map[uint]models.Task, error) {
	byID := make(map[uint]models.Task, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var tasks []models.Task
	if err := DB.WithContext(ctx).Unscoped().Preload("Project").Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, apperrors.NewDatabaseError("load tasks", err)
	}
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return byID, nil
}
