package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

func TestStartStopTimer(t *testing.T) {
	ctx, clock := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Wireframes"})
	require.NoError(t, err)

	started, err := StartTimer(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, started.IsOpen())
	assert.Len(t, started.ID, 36)

	reloaded, err := GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, reloaded.Status)

	clock.Advance(90 * time.Minute)
	stopped, err := StopTimer(ctx, task.ID, "primer borrador")
	require.NoError(t, err)
	assert.Equal(t, started.ID, stopped.ID)
	assert.Equal(t, (90 * time.Minute).Milliseconds(), stopped.DurationMs)
	assert.Equal(t, "primer borrador", stopped.Notes)

	entries, err := GetTimeEntries(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].EndTime)
	assert.Equal(t, 90*time.Minute, entries[0].EndTime.Sub(entries[0].StartTime))
}

func TestStartTimerTwiceConflicts(t *testing.T) {
	ctx, _ := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Banner"})
	require.NoError(t, err)
	_, err = StartTimer(ctx, task.ID)
	require.NoError(t, err)

	_, err = StartTimer(ctx, task.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	entries, err := GetTimeEntries(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStopTimerWhenIdleConflicts(t *testing.T) {
	ctx, _ := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Banner"})
	require.NoError(t, err)

	_, err = StopTimer(ctx, task.ID, "")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))

	_, err = StopTimer(ctx, 404, "")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestTimersAreIndependentPerTask(t *testing.T) {
	ctx, clock := setupTestDB(t)

	a, err := CreateTask(ctx, TaskRequest{Title: "A"})
	require.NoError(t, err)
	b, err := CreateTask(ctx, TaskRequest{Title: "B"})
	require.NoError(t, err)

	_, err = StartTimer(ctx, a.ID)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = StartTimer(ctx, b.ID)
	require.NoError(t, err)
	clock.Advance(time.Minute)

	running, err := GetRunningEntries(ctx)
	require.NoError(t, err)
	require.Len(t, running, 2)
	assert.Equal(t, "A", running[0].Task.Title)
	assert.Equal(t, 2*time.Minute, running[0].Elapsed)
	assert.Equal(t, time.Minute, running[1].Elapsed)
}

func TestStopwatchResumesFromStore(t *testing.T) {
	ctx, clock := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Video"})
	require.NoError(t, err)
	_, err = StartTimer(ctx, task.ID)
	require.NoError(t, err)

	clock.Advance(42 * time.Second)
	sw, err := Stopwatch(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, sw.Tracking())
	assert.Equal(t, 42*time.Second, sw.Tick())
}

func TestCompletedTaskCannotStartTimer(t *testing.T) {
	ctx, _ := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Done"})
	require.NoError(t, err)
	_, err = SetTaskStatus(ctx, task.ID, models.StatusCompleted)
	require.NoError(t, err)

	_, err = StartTimer(ctx, task.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestTrackedTimeAndRange(t *testing.T) {
	ctx, clock := setupTestDB(t)

	task, err := CreateTask(ctx, TaskRequest{Title: "Report"})
	require.NoError(t, err)

	_, err = StartTimer(ctx, task.ID)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = StopTimer(ctx, task.ID, "")
	require.NoError(t, err)

	_, err = StartTimer(ctx, task.ID)
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)

	loaded, err := GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Hour+10*time.Minute, TrackedTime(*loaded))

	closed, err := GetEntriesInRange(ctx, clock.now.Add(-24*time.Hour), clock.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, closed, 1)
}
