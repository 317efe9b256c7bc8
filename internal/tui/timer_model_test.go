package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/timetrack"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func runningTimer(t *testing.T) (TimerModel, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 4, 14, 9, 0, 0, 0, time.UTC)}
	entries := []models.TimeEntry{{ID: "e1", TaskID: 7, StartTime: clock.now}}
	sw := timetrack.NewStopwatch(7, entries, clock)
	require.True(t, sw.Tracking())

	task := models.Task{ID: 7, Title: "Landing", Status: models.StatusInProgress, Priority: "Alta"}
	return NewTimerModel(task, sw, clock, time.Second), clock
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTimerTickUpdatesElapsed(t *testing.T) {
	m, clock := runningTimer(t)
	require.NotNil(t, m.Init())

	clock.now = clock.now.Add(65 * time.Second)
	next, cmd := m.Update(timerTickMsg(clock.now))
	m = next.(TimerModel)

	assert.Equal(t, 65*time.Second, m.Elapsed())
	assert.NotNil(t, cmd, "tick re-arms while tracking")
}

func TestTimerStopAsksForNotes(t *testing.T) {
	m, _ := runningTimer(t)

	next, _ := m.Update(keyMsg("s"))
	m = next.(TimerModel)
	assert.False(t, m.Stopping())

	for _, r := range "copy final" {
		next, _ = m.Update(keyMsg(string(r)))
		m = next.(TimerModel)
	}
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(TimerModel)

	assert.True(t, m.Stopping())
	assert.Equal(t, "copy final", m.Notes())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(timerTickMsg(time.Now()))
	assert.Nil(t, cmd, "no tick after stop")
}

func TestTimerEscFromNotesGoesBack(t *testing.T) {
	m, _ := runningTimer(t)

	next, _ := m.Update(keyMsg("s"))
	next, cmd := next.(TimerModel).Update(keyMsg("esc"))
	m = next.(TimerModel)

	assert.Nil(t, cmd)
	assert.False(t, m.Stopping())
	assert.False(t, m.Exiting())
}

func TestTimerExitKeepsRunning(t *testing.T) {
	m, _ := runningTimer(t)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(TimerModel)
	assert.True(t, m.Exiting())
	assert.False(t, m.Stopping())
	require.NotNil(t, cmd)

	_, cmd = m.Update(timerTickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestTimerIdleDoesNotTick(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	sw := timetrack.NewStopwatch(1, nil, clock)
	m := NewTimerModel(models.Task{ID: 1}, sw, clock, 0)
	assert.Nil(t, m.Init())
}

func TestTimerView(t *testing.T) {
	m, _ := runningTimer(t)
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := next.(TimerModel).View()
	assert.Contains(t, view, "TRACKING TIME")
	assert.Contains(t, view, "#7")
}

func TestRenderBigClock(t *testing.T) {
	short := renderBigClock(59 * time.Second)
	long := renderBigClock(2*time.Hour + time.Second)
	assert.Len(t, splitLines(short), 5)
	assert.Greater(t, len(splitLines(long)[0]), len(splitLines(short)[0]))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
