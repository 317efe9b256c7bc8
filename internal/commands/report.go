package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/report"
	"github.com/agencia-digital/agencia/internal/tui"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Timesheet of tracked time per task per day",
	Long: `Build a timesheet of closed time entries between two dates.
Defaults to the last 7 days including today.

Examples:
  agencia report
  agencia report --from 2026-04-01 --to 2026-04-30 --format csv
  agencia report --format xlsx -o abril.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := reportRange(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if output != "" && !cmd.Flags().Changed("format") {
			if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext == report.FormatCSV || ext == report.FormatXLSX {
				format = ext
			}
		}
		if strings.EqualFold(format, report.FormatXLSX) && output == "" {
			return apperrors.NewInvalidInputError("output", "", "xlsx reports need --output")
		}

		ts, err := report.Load(cmd.Context(), from, to)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := report.Write(w, ts, format); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "📄 Wrote %d rows to %s\n", len(ts.Rows), output)
		}
		return nil
	},
}

// reportRange resolves --from and --to into a half-open range of whole days
func reportRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := db.Clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	from := today.AddDate(0, 0, -6)
	to := today.AddDate(0, 0, 1)
	if t, err := dateFlag(cmd, "from"); err != nil {
		return from, to, err
	} else if t != nil {
		from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	}
	if t, err := dateFlag(cmd, "to"); err != nil {
		return from, to, err
	} else if t != nil {
		to = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return from, to, apperrors.NewValidationError("--to must not be before --from", nil)
	}
	return from, to, nil
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive board of tasks ordered by urgency",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := taskQueryFromFlags(cmd)
		if err != nil {
			return err
		}
		return tui.RunBoard(cmd.Context(), opts)
	},
}

var taskStatuses = []models.TaskStatus{
	models.StatusPending, models.StatusInProgress, models.StatusPaused, models.StatusCompleted,
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Summary of clients, projects, tasks, timers and billing",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		d, err := db.GetDashboard(cmd.Context(), top)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Clientes: %d   Proyectos activos: %d   Personal: %d\n", d.Clients, d.ActiveProjects, d.Personnel)
		fmt.Fprintf(out, "Tareas: ")
		parts := make([]string, 0, len(d.TasksByStatus))
		for _, s := range taskStatuses {
			parts = append(parts, fmt.Sprintf("%s %d", s, d.TasksByStatus[s]))
		}
		fmt.Fprintln(out, strings.Join(parts, " · "))
		fmt.Fprintf(out, "Timers activos: %d   Tiempo hoy: %s\n", d.Running, d.TrackedToday)
		fmt.Fprintf(out, "Por cobrar: %s\n", strconv.FormatFloat(d.PendingBilling, 'f', 2, 64))
		if len(d.TopTasks) > 0 {
			fmt.Fprintln(out)
			printTasks(cmd, d.TopTasks)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("from", "", "first day (default 6 days ago)")
	reportCmd.Flags().String("to", "", "last day, inclusive (default today)")
	reportCmd.Flags().StringP("format", "f", report.FormatTable, "table, csv or xlsx")
	reportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	addTaskQueryFlags(boardCmd)

	dashboardCmd.Flags().Int("top", 5, "number of most urgent tasks to show")
}
