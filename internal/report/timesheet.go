package report

import (
	"context"
	"sort"
	"time"

	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

const dayLayout = "2006-01-02"

// Row is the time tracked on one task during one day
type Row struct {
	Date     string
	TaskID   uint
	Task     string
	Project  string
	Duration time.Duration
}

// Timesheet aggregates closed time entries per task per day
type Timesheet struct {
	From  time.Time
	To    time.Time
	Rows  []Row
	Total time.Duration
}

// TaskTotal is the time tracked on one task over the whole range
type TaskTotal struct {
	TaskID   uint
	Task     string
	Project  string
	Duration time.Duration
}

// Build groups entries by the day they started in loc and by task. Rows are
// ordered by date, then task title. Open entries are skipped.
func Build(from, to time.Time, entries []models.TimeEntry, tasks map[uint]models.Task, loc *time.Location) Timesheet {
	if loc == nil {
		loc = time.Local
	}
	type key struct {
		date   string
		taskID uint
	}

	sums := make(map[key]time.Duration)
	var order []key
	var closed []models.TimeEntry
	for _, e := range entries {
		if e.IsOpen() {
			continue
		}
		closed = append(closed, e)
		k := key{date: e.StartTime.In(loc).Format(dayLayout), taskID: e.TaskID}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += e.Duration()
	}

	ts := Timesheet{From: from, To: to, Total: timetrack.TotalDuration(closed)}
	for _, k := range order {
		row := Row{Date: k.date, TaskID: k.taskID, Duration: sums[k]}
		if t, ok := tasks[k.taskID]; ok {
			row.Task = t.Title
			if t.Project != nil {
				row.Project = t.Project.Name
			}
		}
		ts.Rows = append(ts.Rows, row)
	}
	sort.SliceStable(ts.Rows, func(i, j int) bool {
		if ts.Rows[i].Date != ts.Rows[j].Date {
			return ts.Rows[i].Date < ts.Rows[j].Date
		}
		return ts.Rows[i].Task < ts.Rows[j].Task
	})
	return ts
}

// ByTask sums the timesheet per task, longest first
func (ts Timesheet) ByTask() []TaskTotal {
	index := make(map[uint]int)
	var totals []TaskTotal
	for _, r := range ts.Rows {
		i, ok := index[r.TaskID]
		if !ok {
			index[r.TaskID] = len(totals)
			totals = append(totals, TaskTotal{TaskID: r.TaskID, Task: r.Task, Project: r.Project})
			i = len(totals) - 1
		}
		totals[i].Duration += r.Duration
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Duration > totals[j].Duration })
	return totals
}

// Load builds the timesheet of entries that started in [from, to)
func Load(ctx context.Context, from, to time.Time) (Timesheet, error) {
	entries, err := db.GetEntriesInRange(ctx, from, to)
	if err != nil {
		return Timesheet{}, err
	}

	seen := make(map[uint]bool)
	var ids []uint
	for _, e := range entries {
		if !seen[e.TaskID] {
			seen[e.TaskID] = true
			ids = append(ids, e.TaskID)
		}
	}
	tasks, err := db.GetTasksByIDs(ctx, ids)
	if err != nil {
		return Timesheet{}, err
	}
	return Build(from, to, entries, tasks, from.Location()), nil
}
