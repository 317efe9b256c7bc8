package models

import (
	"fmt"
	"strings"
)

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pendiente"
	StatusInProgress TaskStatus = "En Progreso"
	StatusPaused     TaskStatus = "Pausada"
	StatusCompleted  TaskStatus = "Completada"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress, StatusCompleted},
	StatusCompleted:  {StatusPending},
}

// ParseTaskStatus accepts the Spanish names and a few English aliases
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch normalizeStatus(s) {
	case "pendiente", "pending", "todo":
		return StatusPending, nil
	case "en progreso", "en_progreso", "in progress", "in_progress", "progress":
		return StatusInProgress, nil
	case "pausada", "paused", "pause":
		return StatusPaused, nil
	case "completada", "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// CanTransition reports whether a task may move from s to next
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Next lists the states reachable from s
func (s TaskStatus) Next() []TaskStatus {
	return append([]TaskStatus(nil), taskTransitions[s]...)
}

// Valid reports whether s is one of the known states
func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
