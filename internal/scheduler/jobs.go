package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/agencia-digital/agencia/internal/config"
	"github.com/agencia-digital/agencia/internal/db"
)

// Purger drops expired cache entries
type Purger interface {
	Purge() int
}

// DigestResult is what one run of the overdue digest found
type DigestResult struct {
	BillingMarked int64
	OverdueTasks  []db.ScoredTask
}

// RunDigest marks overdue billing accounts as Vencida and logs every open
// task past its due date
func RunDigest(ctx context.Context) (DigestResult, error) {
	var result DigestResult

	marked, err := db.MarkOverdueBilling(ctx)
	if err != nil {
		return result, err
	}
	result.BillingMarked = marked

	tasks, err := db.GetOverdueTasks(ctx)
	if err != nil {
		return result, err
	}
	result.OverdueTasks = tasks

	slog.Info("overdue digest", "billing_marked", marked, "overdue_tasks", len(tasks))
	for _, t := range tasks {
		slog.Warn("task overdue",
			"task_id", t.ID,
			"title", t.Title,
			"due", t.DueDate.Format("2006-01-02"),
			"score", t.Score.Score,
			"label", t.Score.Label)
	}
	return result, nil
}

// Register wires the digest and cache purge jobs into s
func Register(s *Scheduler, cfg config.SchedulerConfig, purger Purger) error {
	if _, err := s.ScheduleDaily(cfg.DigestTime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := RunDigest(ctx); err != nil {
			slog.Error("overdue digest failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if purger != nil {
		if _, err := s.ScheduleInterval(cfg.PurgeInterval, func() {
			if n := purger.Purge(); n > 0 {
				slog.Debug("role cache purged", "entries", n)
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
