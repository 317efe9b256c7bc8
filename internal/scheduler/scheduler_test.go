package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencia-digital/agencia/internal/config"
	"github.com/agencia-digital/agencia/internal/db"
	"github.com/agencia-digital/agencia/internal/models"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"morning", "08:00", "0 0 8 * * *", false},
		{"single digits", "7:5", "0 5 7 * * *", false},
		{"end of day", "23:59", "0 59 23 * * *", false},
		{"padded", " 09:30 ", "0 30 9 * * *", false},
		{"hour out of range", "24:00", "", true},
		{"minute out of range", "10:60", "", true},
		{"missing minute", "10", "", true},
		{"not a number", "aa:bb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduleInterval(t *testing.T) {
	s := New(time.UTC)

	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)

	_, err = s.ScheduleInterval(500*time.Millisecond, func() {})
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}

type countingPurger struct{ calls int }

func (p *countingPurger) Purge() int {
	p.calls++
	return 0
}

func TestRegister(t *testing.T) {
	s := New(time.UTC)
	err := Register(s, config.SchedulerConfig{DigestTime: "08:00", PurgeInterval: time.Minute}, &countingPurger{})
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 2)

	err = Register(New(time.UTC), config.SchedulerConfig{DigestTime: "8am", PurgeInterval: time.Minute}, nil)
	assert.Error(t, err)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestRunDigest(t *testing.T) {
	require.NoError(t, db.Initialize(filepath.Join(t.TempDir(), "digest.db"), false))
	now := time.Date(2026, 4, 14, 8, 0, 0, 0, time.UTC)
	previous := db.Clock
	db.Clock = fixedClock{now: now}
	t.Cleanup(func() {
		db.Clock = previous
		_ = db.Close()
	})
	ctx := context.Background()

	client, err := db.CreateClient(ctx, db.ClientRequest{Name: "Cliente"})
	require.NoError(t, err)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)
	_, err = db.CreateBillingAccount(ctx, db.BillingRequest{ClientID: client.ID, Concept: "Vencida", Amount: 10, DueDate: &past})
	require.NoError(t, err)
	_, err = db.CreateBillingAccount(ctx, db.BillingRequest{ClientID: client.ID, Concept: "Al día", Amount: 10, DueDate: &future})
	require.NoError(t, err)

	late, err := db.CreateTask(ctx, db.TaskRequest{Title: "late", DueDate: &past})
	require.NoError(t, err)
	_, err = db.CreateTask(ctx, db.TaskRequest{Title: "on time", DueDate: &future})
	require.NoError(t, err)
	done, err := db.CreateTask(ctx, db.TaskRequest{Title: "done late", DueDate: &past})
	require.NoError(t, err)
	_, err = db.SetTaskStatus(ctx, done.ID, models.StatusCompleted)
	require.NoError(t, err)

	result, err := RunDigest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.BillingMarked)
	require.Len(t, result.OverdueTasks, 1)
	assert.Equal(t, late.ID, result.OverdueTasks[0].ID)
	assert.Equal(t, 250, result.OverdueTasks[0].Score.Score)

	again, err := RunDigest(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.BillingMarked)
}
