package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

// RunTimerTUI shows the stopwatch of a task until the user stops it or
// leaves. Leaving keeps the timer running.
func RunTimerTUI(ctx context.Context, taskID uint, interval time.Duration) error {
	task, err := db.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	sw := timetrack.NewStopwatch(task.ID, task.TimeEntries, db.Clock)
	if !sw.Tracking() {
		return fmt.Errorf("no timer is running for task #%d", taskID)
	}

	p := tea.NewProgram(NewTimerModel(*task, sw, db.Clock, interval), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m := finalModel.(TimerModel)
	switch {
	case m.Stopping():
		entry, err := db.StopTimer(ctx, taskID, m.Notes())
		if err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}
		fmt.Printf("⏹️  Stopped tracking time for task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("📊 Entry duration: %s\n", timetrack.Format(entry.Duration()))
	case m.Exiting():
		fmt.Printf("\n💡 Timer is still running for task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("   Use 'agencia status' to check it or 'agencia stop %d' to stop it.\n", task.ID)
	}
	return nil
}

// RunBoard shows open tasks ordered by urgency
func RunBoard(ctx context.Context, opts db.TaskQueryOptions) error {
	opts.SortByPriority = true
	tasks, err := db.GetTasks(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewBoardModel(tasks, db.Clock.Now()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
