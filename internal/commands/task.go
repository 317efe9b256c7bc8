package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agencia-digital/agencia/internal/db"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/parser"
	"github.com/agencia-digital/agencia/internal/priority"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks", "t", "tarea"},
	Short:   "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Add a task",
	Long: `Add a task. The title accepts inline metadata:

  @project     project name (dashes stand for spaces) or id
  ~assignee    staff member name or email
  +priority    alta, media, baja (or high, medium, low, 3, 2, 1)
  due:when     2026-05-01, 01/05/2026, today, tomorrow, 3days, 2weeks

Flags override inline metadata.

Examples:
  agencia task add Diseñar landing @web-corporativa ~luisa +alta due:3days
  agencia task add "Revisar copy" --project 2 --priority baja --due 15/05/2026`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		parsed := parser.ParseTitle(strings.Join(args, " "), db.Clock.Now())
		if len(parsed.Errors) > 0 {
			return apperrors.NewValidationError(strings.Join(parsed.Errors, "; "), nil)
		}

		if v, _ := cmd.Flags().GetString("project"); v != "" {
			parsed.Project = v
		}
		if v, _ := cmd.Flags().GetString("assignee"); v != "" {
			parsed.Assignee = v
		}
		if v, _ := cmd.Flags().GetString("priority"); v != "" {
			parsed.Priority = v
		}
		if due, err := dateFlag(cmd, "due"); err != nil {
			return err
		} else if due != nil {
			parsed.DueDate = due
		}

		req := db.TaskRequest{
			Title:    parsed.Title,
			Priority: parsed.Priority,
			DueDate:  parsed.DueDate,
		}
		req.Description, _ = cmd.Flags().GetString("desc")
		if err := resolveRefs(ctx, parsed, &req); err != nil {
			return err
		}

		task, err := db.CreateTask(ctx, req)
		if err != nil {
			return err
		}
		score := db.ScoreTask(*task)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Created task #%d: %s\n", task.ID, task.Title)
		fmt.Fprintf(out, "   Prioridad: %s  Puntaje: %d (%s)\n", task.Priority, score.Score, score.Label)
		if task.DueDate != nil {
			fmt.Fprintf(out, "   Vence: %s\n", parser.FormatDueDate(task.DueDate, db.Clock.Now()))
		}
		return nil
	},
}

// resolveRefs turns @project and ~assignee references into ids
func resolveRefs(ctx context.Context, parsed parser.ParsedTask, req *db.TaskRequest) error {
	if parsed.Project != "" {
		project, err := db.FindProject(ctx, parsed.Project)
		if err != nil {
			return err
		}
		req.ProjectID = &project.ID
	}
	if parsed.Assignee != "" {
		person, err := db.FindPersonnel(ctx, parsed.Assignee)
		if err != nil {
			return err
		}
		req.AssigneeID = &person.ID
	}
	return nil
}

var taskListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List tasks. Use --sort to order by urgency score.

Examples:
  agencia task ls --sort
  agencia task ls --status "en progreso" --project web-corporativa`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := taskQueryFromFlags(cmd)
		if err != nil {
			return err
		}
		tasks, err := db.GetTasks(cmd.Context(), opts)
		if err != nil {
			return err
		}
		printTasks(cmd, tasks)
		return nil
	},
}

// taskQueryFromFlags reads the shared task filter flags
func taskQueryFromFlags(cmd *cobra.Command) (db.TaskQueryOptions, error) {
	ctx := cmd.Context()
	var opts db.TaskQueryOptions
	opts.Status, _ = cmd.Flags().GetString("status")
	opts.Priority, _ = cmd.Flags().GetString("priority")
	opts.SortByPriority, _ = cmd.Flags().GetBool("sort")
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	if ref, _ := cmd.Flags().GetString("project"); ref != "" {
		project, err := db.FindProject(ctx, ref)
		if err != nil {
			return opts, err
		}
		opts.ProjectID = &project.ID
	}
	if ref, _ := cmd.Flags().GetString("assignee"); ref != "" {
		person, err := db.FindPersonnel(ctx, ref)
		if err != nil {
			return opts, err
		}
		opts.AssigneeID = &person.ID
	}
	return opts, nil
}

func addTaskQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "filter by status")
	cmd.Flags().String("priority", "", "filter by priority tier")
	cmd.Flags().String("project", "", "filter by project (id or name)")
	cmd.Flags().String("assignee", "", "filter by assignee (id, name or email)")
	cmd.Flags().Int("limit", 0, "show at most this many tasks")
}

func printTasks(cmd *cobra.Command, tasks []db.ScoredTask) {
	now := db.Clock.Now()
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		project, assignee := "-", "-"
		if t.Project != nil {
			project = t.Project.Name
		}
		if t.Assignee != nil {
			assignee = t.Assignee.Name
		}
		due := "-"
		if t.DueDate != nil {
			due = parser.FormatDueDate(t.DueDate, now)
		}
		rows = append(rows, []string{
			strconv.Itoa(int(t.ID)), truncate(t.Title, 40), string(t.Status), t.Priority,
			fmt.Sprintf("%d %s", t.Score.Score, t.Score.Label), due, project, assignee,
		})
	}
	printTable(cmd.OutOrStdout(), "No tasks found.",
		[]string{"ID", "Tarea", "Estado", "Prioridad", "Puntaje", "Vence", "Proyecto", "Responsable"}, rows)
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a task with its score and tracked time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		task, err := db.GetTaskByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		now := db.Clock.Now()
		score := db.ScoreTask(*task)
		sw := timetrack.NewStopwatch(task.ID, task.TimeEntries, db.Clock)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "#%d %s\n", task.ID, task.Title)
		if task.Description != "" {
			fmt.Fprintf(out, "   %s\n", task.Description)
		}
		fmt.Fprintf(out, "Estado:      %s\n", task.Status)
		fmt.Fprintf(out, "Prioridad:   %s\n", task.Priority)
		fmt.Fprintf(out, "Puntaje:     %d (%s)\n", score.Score, score.Label)
		if task.DueDate != nil {
			fmt.Fprintf(out, "Vence:       %s (%s)\n", formatDate(task.DueDate), parser.FormatDueDate(task.DueDate, now))
		}
		if task.Project != nil {
			fmt.Fprintf(out, "Proyecto:    %s\n", task.Project.Name)
		}
		if task.Assignee != nil {
			fmt.Fprintf(out, "Responsable: %s\n", task.Assignee.Name)
		}
		fmt.Fprintf(out, "Tiempo:      %s (%d entradas)\n", timetrack.Format(db.TrackedTime(*task)), len(task.TimeEntries))
		if sw.Tracking() {
			fmt.Fprintf(out, "⏱️  Timer running: %s\n", timetrack.Format(sw.Tick()))
		}
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Move a task to another status",
	Long: `Move a task to another status. Allowed moves:

  Pendiente   -> En Progreso, Completada
  En Progreso -> Pausada, Completada
  Pausada     -> En Progreso, Completada
  Completada  -> Pendiente

Completing a task stops its running timer.

Examples:
  agencia task status 12 "en progreso"
  agencia task status 12 done`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		raw := strings.Join(args[1:], " ")
		status, err := models.ParseTaskStatus(raw)
		if err != nil {
			return apperrors.NewInvalidInputError("status", raw, err.Error())
		}
		task, err := db.SetTaskStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔄 Task #%d is now %s\n", task.ID, task.Status)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task and its time entries",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := db.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task #%d\n", id)
		return nil
	},
}

var taskScoreCmd = &cobra.Command{
	Use:   "score [priority] [due]",
	Short: "Compute an urgency score without saving anything",
	Long: `Compute the urgency score for a priority tier and an optional due date.

Examples:
  agencia task score alta tomorrow
  agencia task score baja 2026-12-01`,
	Args:        cobra.RangeArgs(1, 2),
	Annotations: map[string]string{skipDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		now := db.Clock.Now()
		// unknown tiers score with base 0
		tier := args[0]
		if t, ok := priority.ParseTier(tier); ok {
			tier = string(t)
		}
		var due *time.Time
		if len(args) == 2 {
			var err error
			if due, err = parser.ParseDueDate(args[1], now); err != nil {
				return apperrors.NewInvalidInputError("due", args[1], err.Error())
			}
		}
		score := priority.ComputeOptional(tier, due, now)
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s (%s)\n", score.Score, score.Label, score.Color)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringP("project", "p", "", "project (id or name)")
	taskAddCmd.Flags().StringP("assignee", "a", "", "assignee (id, name or email)")
	taskAddCmd.Flags().String("priority", "", "Alta, Media or Baja")
	taskAddCmd.Flags().String("due", "", "due date")
	taskAddCmd.Flags().StringP("desc", "d", "", "description")

	addTaskQueryFlags(taskListCmd)
	taskListCmd.Flags().BoolP("sort", "s", false, "sort by urgency score")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskStatusCmd, taskRmCmd, taskScoreCmd)
}
