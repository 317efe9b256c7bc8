package db

import (
	"context"
	"time"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// Dashboard summarises the state of the agency
type Dashboard struct {
	Clients        int64                       `json:"clients"`
	ActiveProjects int64                       `json:"active_projects"`
	Personnel      int64                       `json:"personnel"`
	TasksByStatus  map[models.TaskStatus]int64 `json:"tasks_by_status"`
	TopTasks       []ScoredTask                `json:"top_tasks"`
	Running        int                         `json:"running_timers"`
	TrackedToday   string                      `json:"tracked_today"`
	PendingBilling float64                     `json:"pending_billing"`
}

// GetDashboard gathers counts, the most urgent open tasks and today's tracked time
func GetDashboard(ctx context.Context, top int) (*Dashboard, error) {
	d := &Dashboard{TasksByStatus: make(map[models.TaskStatus]int64)}
	conn := DB.WithContext(ctx)

	if err := conn.Model(&models.Client{}).Count(&d.Clients).Error; err != nil {
		return nil, apperrors.NewDatabaseError("count clients", err)
	}
	if err := conn.Model(&models.Project{}).Where("status = ?", models.ProjectActive).Count(&d.ActiveProjects).Error; err != nil {
		return nil, apperrors.NewDatabaseError("count projects", err)
	}
	if err := conn.Model(&models.Personnel{}).Where("active = ?", true).Count(&d.Personnel).Error; err != nil {
		return nil, apperrors.NewDatabaseError("count personnel", err)
	}

	var rows []struct {
		Status models.TaskStatus
		N      int64
	}
	if err := conn.Model(&models.Task{}).Select("status, count(*) as n").Group("status").Scan(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError("count tasks", err)
	}
	for _, r := range rows {
		d.TasksByStatus[r.Status] = r.N
	}

	tasks, err := GetTasks(ctx, TaskQueryOptions{SortByPriority: true})
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			continue
		}
		d.TopTasks = append(d.TopTasks, t)
		if top > 0 && len(d.TopTasks) == top {
			break
		}
	}

	running, err := GetRunningEntries(ctx)
	if err != nil {
		return nil, err
	}
	d.Running = len(running)

	now := Clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	closed, err := GetEntriesInRange(ctx, startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	today := timetrack.TotalDuration(closed)
	for _, r := range running {
		today += r.Elapsed
	}
	d.TrackedToday = timetrack.Format(today)

	var pending struct{ Total float64 }
	if err := conn.Model(&models.BillingAccount{}).
		Select("coalesce(sum(amount), 0) as total").
		Where("status IN ?", []string{models.BillingPending, models.BillingOverdue}).
		Scan(&pending).Error; err != nil {
		return nil, apperrors.NewDatabaseError("sum billing", err)
	}
	d.PendingBilling = pending.Total

	return d, nil
}
