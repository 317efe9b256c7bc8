package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatusTransitions(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusPaused, false},
		{StatusInProgress, StatusPaused, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusPaused, StatusInProgress, true},
		{StatusPaused, StatusCompleted, true},
		{StatusCompleted, StatusPending, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TaskStatus
	}{
		{"Pendiente", StatusPending},
		{"  en   progreso ", StatusInProgress},
		{"in_progress", StatusInProgress},
		{"PAUSADA", StatusPaused},
		{"done", StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTaskStatus("archived")
	assert.Error(t, err)
}

func TestNextReturnsCopy(t *testing.T) {
	next := StatusPending.Next()
	next[0] = StatusCompleted
	assert.Equal(t, StatusInProgress, StatusPending.Next()[0])
	assert.False(t, TaskStatus("Archivada").Valid())
}

func TestTimeEntryIsOpen(t *testing.T) {
	e := TimeEntry{DurationMs: 1500}
	assert.True(t, e.IsOpen())
	assert.Equal(t, int64(1500), e.Duration().Milliseconds())
}
