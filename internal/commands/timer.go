package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/timetrack"
	"github.com/agencia-digital/agencia/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search tasks by title, description, project or assignee",
	Long: `Search tasks. Exact matches come first, then prefix, suffix and
substring matches.

Examples:
  agencia search landing
  agencia search "web corporativa" --status pendiente`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := taskQueryFromFlags(cmd)
		if err != nil {
			return err
		}
		tasks, err := db.SearchTasks(cmd.Context(), strings.Join(args, " "), opts)
		if err != nil {
			return err
		}
		printTasks(cmd, tasks)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens the interactive timer by default.
Each task has its own timer, so several can run at once.

Examples:
  agencia start 42           # interactive timer
  agencia start 42 --no-ui   # start and return
  agencia start 42 --watch   # print elapsed time until interrupted`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		entry, err := db.StartTimer(ctx, taskID)
		if err != nil {
			return err
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		watch, _ := cmd.Flags().GetBool("watch")
		out := cmd.OutOrStdout()
		switch {
		case watch:
			fmt.Fprintf(out, "⏱️  Tracking task #%d (ctrl+c to detach, timer keeps running)\n", taskID)
			return watchTimer(cmd, taskID)
		case noUI:
			fmt.Fprintf(out, "⏱️  Started tracking time for task #%d\n", taskID)
			fmt.Fprintf(out, "Started at: %s\n", entry.StartTime.Format("15:04:05"))
			return nil
		default:
			return tui.RunTimerTUI(ctx, taskID, cfg.Timer.TickInterval)
		}
	},
}

// watchTimer prints the elapsed time of a running timer until it stops
// or the user interrupts
func watchTimer(cmd *cobra.Command, taskID uint) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	err := followTimer(ctx, taskID, cfg.Timer.TickInterval, out)
	fmt.Fprintln(out)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// followTimer writes the elapsed time every interval. The entries are
// reloaded on each tick so a stop from another process ends the loop.
func followTimer(ctx context.Context, taskID uint, interval time.Duration, w io.Writer) error {
	sw, err := db.Stopwatch(ctx, taskID)
	if err != nil {
		return err
	}

	var loadErr error
	err = timetrack.Watch(ctx, sw, interval, func(time.Duration) {
		current, err := db.Stopwatch(ctx, taskID)
		if err != nil {
			loadErr = err
			sw.Stop("")
			return
		}
		if !current.Tracking() {
			// only ends the local loop; the stored entry was closed elsewhere
			sw.Stop("")
			fmt.Fprintf(w, "\r%s stopped", timetrack.Format(current.Total()))
			return
		}
		fmt.Fprintf(w, "\r%s", timetrack.Format(current.Tick()))
	})
	if loadErr != nil {
		return loadErr
	}
	return err
}

var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop the timer of a task",
	Long: `Stop the running timer of a task and record the entry.

Examples:
  agencia stop 42
  agencia stop 42 -n "wireframes aprobados"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		notes, _ := cmd.Flags().GetString("notes")
		entry, err := db.StopTimer(cmd.Context(), taskID, notes)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "⏹️  Stopped tracking time for task #%d\n", taskID)
		fmt.Fprintf(out, "📊 Entry duration: %s\n", timetrack.Format(entry.Duration()))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		running, err := db.GetRunningEntries(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(running) == 0 {
			fmt.Fprintln(out, "No timers running.")
			return nil
		}
		for _, r := range running {
			fmt.Fprintf(out, "⏱️  #%d %s  %s (since %s)\n",
				r.Task.ID, r.Task.Title, timetrack.Format(r.Elapsed), r.Entry.StartTime.Format("15:04"))
		}
		return nil
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries [task-id]",
	Short: "List the time entries of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0])
		if err != nil {
			return err
		}
		entries, err := db.GetTimeEntries(cmd.Context(), taskID)
		if err != nil {
			return err
		}
		sw := timetrack.NewStopwatch(taskID, entries, db.Clock)

		rows := make([][]string, 0, len(entries))
		for i, e := range entries {
			end, dur := "…", timetrack.Format(e.Duration())
			if e.EndTime != nil {
				end = e.EndTime.Format("15:04:05")
			} else {
				dur = timetrack.Format(sw.Tick())
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1), e.StartTime.Format("02/01/2006 15:04:05"), end, dur, truncate(e.Notes, 40),
			})
		}
		out := cmd.OutOrStdout()
		printTable(out, "No time tracked yet.", []string{"#", "Inicio", "Fin", "Duración", "Notas"}, rows)
		if len(entries) > 0 {
			fmt.Fprintf(out, "Total: %s\n", timetrack.Format(timetrack.TotalDuration(entries)))
		}
		return nil
	},
}

func init() {
	addTaskQueryFlags(searchCmd)

	startCmd.Flags().Bool("no-ui", false, "start without the interactive timer")
	startCmd.Flags().Bool("watch", false, "print elapsed time without the interactive timer")

	stopCmd.Flags().StringP("notes", "n", "", "notes for the entry")
}
