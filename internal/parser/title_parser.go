package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/agencia-digital/agencia/internal/priority"
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Title    string
	Project  string
	Assignee string
	Priority string
	DueDate  *time.Time
	Errors   []string
}

var (
	projectRegex  = regexp.MustCompile(`(?:^|\s)@([\p{L}0-9_-]+)`)
	assigneeRegex = regexp.MustCompile(`(?:^|\s)~([\p{L}0-9_.-]+)`)
	priorityRegex = regexp.MustCompile(`(?:^|\s)\+([\p{L}0-9]+)`)
	dueRegex      = regexp.MustCompile(`(?:^|\s)(?:due|vence):(\S+)`)
)

// ParseTitle extracts metadata from a task title using natural syntax.
// Syntax: "Diseñar landing @project ~assignee +alta due:3days"
func ParseTitle(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Errors: []string{},
	}

	if m := projectRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Project = m[1]
		input = projectRegex.ReplaceAllString(input, " ")
	}

	if m := assigneeRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Assignee = m[1]
		input = assigneeRegex.ReplaceAllString(input, " ")
	}

	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		if tier, ok := priority.ParseTier(m[1]); ok {
			result.Priority = string(tier)
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: alta, media, baja, high, medium, low, 3, 2 or 1")
		}
		input = priorityRegex.ReplaceAllString(input, " ")
	}

	if m := dueRegex.FindStringSubmatch(input); len(m) > 1 {
		dueDate, err := ParseDueDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}
