// Package timetrack holds the per-task stopwatch and time entry arithmetic.
package timetrack

import (
	"time"

	"github.com/google/uuid"

	"github.com/agencia-digital/agencia/internal/models"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// Stopwatch tracks time for a single task. It is Idle when no entry is
// open and Tracking when exactly one is. A Stopwatch is not safe for
// concurrent use; callers own one per task and drive it from one goroutine.
type Stopwatch struct {
	taskID  uint
	entries []models.TimeEntry
	active  int // index of the open entry, -1 when idle
	clock   Clock
	newID   func() string
}

// NewStopwatch builds a stopwatch over a task's existing entries. If one
// of them is still open, the stopwatch resumes Tracking on it.
func NewStopwatch(taskID uint, entries []models.TimeEntry, clock Clock) *Stopwatch {
	if clock == nil {
		clock = SystemClock{}
	}
	sw := &Stopwatch{
		taskID:  taskID,
		entries: append([]models.TimeEntry(nil), entries...),
		active:  -1,
		clock:   clock,
		newID:   func() string { return uuid.NewString() },
	}
	for i := range sw.entries {
		if sw.entries[i].IsOpen() {
			sw.active = i
			break
		}
	}
	return sw
}

// TaskID returns the task the stopwatch belongs to
func (s *Stopwatch) TaskID() uint { return s.taskID }

// Tracking reports whether an entry is open
func (s *Stopwatch) Tracking() bool { return s.active >= 0 }

// Active returns a copy of the open entry
func (s *Stopwatch) Active() (models.TimeEntry, bool) {
	if s.active < 0 {
		return models.TimeEntry{}, false
	}
	return s.entries[s.active], true
}

// Entries returns a copy of all entries, open one included
func (s *Stopwatch) Entries() []models.TimeEntry {
	return append([]models.TimeEntry(nil), s.entries...)
}

// Start opens a new entry. It returns false and changes nothing when
// already tracking.
func (s *Stopwatch) Start() (models.TimeEntry, bool) {
	if s.Tracking() {
		return models.TimeEntry{}, false
	}
	entry := models.TimeEntry{
		ID:        s.newID(),
		TaskID:    s.taskID,
		StartTime: s.clock.Now(),
	}
	s.entries = append(s.entries, entry)
	s.active = len(s.entries) - 1
	return entry, true
}

// Tick returns the live elapsed time of the open entry for display. The
// entry itself is left untouched. Idle stopwatches report 0.
func (s *Stopwatch) Tick() time.Duration {
	if s.active < 0 {
		return 0
	}
	e := s.entries[s.active]
	elapsed := e.Duration() + s.clock.Now().Sub(e.StartTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Stop closes the open entry with the given notes. It returns false and
// changes nothing when idle.
func (s *Stopwatch) Stop(notes string) (models.TimeEntry, bool) {
	if s.active < 0 {
		return models.TimeEntry{}, false
	}
	now := s.clock.Now()
	e := &s.entries[s.active]
	e.EndTime = &now
	e.DurationMs = now.Sub(e.StartTime).Milliseconds()
	if e.DurationMs < 0 {
		e.DurationMs = 0
	}
	e.Notes = notes
	closed := *e
	s.active = -1
	return closed, true
}

// Total is the sum of closed entries plus live time of the open one
func (s *Stopwatch) Total() time.Duration {
	total := TotalDuration(s.entries)
	if s.active >= 0 {
		total += s.Tick() - s.entries[s.active].Duration()
	}
	return total
}
