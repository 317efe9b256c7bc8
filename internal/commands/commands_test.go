package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencia-digital/agencia/internal/db"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type cli struct {
	t      *testing.T
	config string
	db     string
	clock  *stepClock
}

// newCLI points the root command at a fresh database and a missing config file
func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{
		t:      t,
		config: filepath.Join(dir, "config.yaml"),
		db:     filepath.Join(dir, "agencia.db"),
		clock:  &stepClock{now: time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)},
	}
	previous := db.Clock
	db.Clock = c.clock
	t.Cleanup(func() {
		db.Clock = previous
		_ = db.Close()
	})
	return c
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	// a failed RunE skips PersistentPostRun
	_ = db.Close()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", c.config, "--db", c.db}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// resetFlags restores defaults since cobra keeps flag values between executions
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestClientAddAndList(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("client", "add", "Café Andino", "--company", "Andino SAS", "--email", "hola@andino.co")
	assert.Contains(t, out, "Created client #1: Café Andino")

	out = c.mustRun("client", "ls")
	assert.Contains(t, out, "Café Andino")
	assert.Contains(t, out, "hola@andino.co")

	out = c.mustRun("client", "ls", "nadie")
	assert.Contains(t, out, "No clients yet.")

	_, err := c.run("client", "add", "Sin correo", "--email", "no-es-email")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestTaskAddParsesInlineMetadata(t *testing.T) {
	c := newCLI(t)
	c.mustRun("project", "add", "Web Corporativa")
	c.mustRun("personnel", "add", "Luisa", "--email", "luisa@agencia.co")

	out := c.mustRun("task", "add", "Diseñar", "landing", "@web-corporativa", "~luisa", "+alta", "due:tomorrow")
	assert.Contains(t, out, "Created task #1: Diseñar landing")
	assert.Contains(t, out, "Puntaje: 200 (Crítica)")

	require.NoError(t, db.Initialize(c.db, false))
	task, err := db.GetTaskByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, task.Project)
	require.NotNil(t, task.Assignee)
	assert.Equal(t, "Web Corporativa", task.Project.Name)
	assert.Equal(t, "Luisa", task.Assignee.Name)
	assert.Equal(t, "Alta", task.Priority)
}

func TestTaskAddRejectsBadMetadata(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("task", "add", "Algo", "+urgentisimo")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = c.run("task", "add", "Algo", "@no-existe")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestTaskListSortedByScore(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Baja lejana", "--priority", "baja")
	c.mustRun("task", "add", "Alta hoy", "--priority", "alta", "--due", "today")

	out := c.mustRun("task", "ls", "--sort")
	assert.Less(t, strings.Index(out, "Alta hoy"), strings.Index(out, "Baja lejana"))
	assert.Contains(t, out, "250 Crítica")
	assert.Contains(t, out, "35 Media-Baja")

	out = c.mustRun("task", "ls", "--priority", "baja")
	assert.NotContains(t, out, "Alta hoy")
}

func TestTaskStatusTransitions(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Maquetar home")

	out := c.mustRun("task", "status", "1", "en", "progreso")
	assert.Contains(t, out, "Task #1 is now En Progreso")

	_, err := c.run("task", "status", "1", "pendiente")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	_, err = c.run("task", "status", "1", "volando")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestStartStopWithoutUI(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Editar video")

	out := c.mustRun("start", "1", "--no-ui")
	assert.Contains(t, out, "Started tracking time for task #1")

	_, err := c.run("start", "1", "--no-ui")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	c.clock.Advance(90 * time.Second)
	out = c.mustRun("status")
	assert.Contains(t, out, "#1 Editar video")
	assert.Contains(t, out, "00:01:30")

	out = c.mustRun("stop", "1", "-n", "primer corte")
	assert.Contains(t, out, "Entry duration: 00:01:30")

	_, err = c.run("stop", "1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	out = c.mustRun("entries", "1")
	assert.Contains(t, out, "primer corte")
	assert.Contains(t, out, "Total: 00:01:30")

	out = c.mustRun("task", "show", "1")
	assert.Contains(t, out, "En Progreso")
	assert.NotContains(t, out, "Timer running")
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Logo nuevo para la marca")
	c.mustRun("task", "add", "Logo")

	out := c.mustRun("search", "logo", "--limit", "1")
	assert.Contains(t, out, "Logo")
	assert.NotContains(t, out, "nuevo")

	out = c.mustRun("search", "marca")
	assert.Contains(t, out, "Logo nuevo para la marca")
}

func TestBillingAddAndPay(t *testing.T) {
	c := newCLI(t)
	c.mustRun("client", "add", "Café Andino")

	out := c.mustRun("billing", "add", "café andino", "Anticipo", "4500000", "--due", "2026-05-01")
	assert.Contains(t, out, "Issued #1 to Café Andino")

	out = c.mustRun("billing", "pay", "1")
	assert.Contains(t, out, "Marked #1 as paid on 14/04/2026")

	_, err := c.run("billing", "pay", "1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	out = c.mustRun("billing", "ls", "--status", models.BillingPaid)
	assert.Contains(t, out, "Anticipo")
}

func TestReportCSV(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Copy redes")
	c.mustRun("start", "1", "--no-ui")
	c.clock.Advance(30 * time.Minute)
	c.mustRun("stop", "1")

	out := c.mustRun("report", "--format", "csv")
	assert.Contains(t, out, "date,task_id,task,project,duration,hours")
	assert.Contains(t, out, "2026-04-14,1,Copy redes,,00:30:00,0.50")

	_, err := c.run("report", "--format", "xlsx")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	_, err = c.run("report", "--from", "2026-04-20", "--to", "2026-04-10")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestTaskScoreNeedsNoDatabase(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("task", "score", "alta", "tomorrow")
	assert.Equal(t, "200 Crítica (red)\n", out)

	out = c.mustRun("task", "score", "baja")
	assert.Equal(t, "35 Media-Baja (green)\n", out)

	out = c.mustRun("task", "score", "high", "tomorrow")
	assert.Equal(t, "200 Crítica (red)\n", out)

	out = c.mustRun("task", "score", "urgentisima")
	assert.Equal(t, "25 Media-Baja (green)\n", out)
}

func TestConfigShow(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("config", "show")
	assert.Contains(t, out, "digest_time")
	assert.Contains(t, out, "tick_interval")
}

func TestParseID(t *testing.T) {
	id, err := parseID("#12")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

// stopOnFirstWrite closes the task's timer through the store the first time
// output arrives, like `agencia stop` from another shell
type stopOnFirstWrite struct {
	t      *testing.T
	taskID uint
	buf    bytes.Buffer
	done   bool
}

func (w *stopOnFirstWrite) Write(p []byte) (int, error) {
	if !w.done {
		w.done = true
		_, err := db.StopTimer(context.Background(), w.taskID, "")
		require.NoError(w.t, err)
	}
	return w.buf.Write(p)
}

func TestFollowTimerEndsWhenStoppedElsewhere(t *testing.T) {
	c := newCLI(t)
	c.mustRun("task", "add", "Animación")
	c.mustRun("start", "1", "--no-ui")
	c.clock.Advance(5 * time.Second)

	require.NoError(t, db.Initialize(c.db, false))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w := &stopOnFirstWrite{t: t, taskID: 1}
	require.NoError(t, followTimer(ctx, 1, 5*time.Millisecond, w))
	assert.NoError(t, ctx.Err(), "loop should end on its own")
	assert.Contains(t, w.buf.String(), "00:00:05")
	assert.Contains(t, w.buf.String(), "stopped")
}
