package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*([a-zñí]+)$`)
)

// ParseDueDate parses the due date formats accepted by the CLI, relative
// to now. Supported formats:
// - yyyy-mm-dd (e.g., "2026-12-15")
// - dd/mm/yyyy (e.g., "15/12/2026")
// - today/hoy, tomorrow/mañana
// - X days|dias (e.g., "3 days", "3days", "1 dia")
// - X hours|horas (e.g., "24 hours")
// - X weeks|semanas (e.g., "2 weeks")
//
// Calendar dates and day or week offsets resolve to the end of that day.
func ParseDueDate(input string, now time.Time) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	if dueDate, err := parseCalendarDate(input, now.Location()); err == nil {
		return dueDate, nil
	} else if isoDateRegex.MatchString(input) || dateRegex.MatchString(input) {
		return nil, err
	}

	if dueDate, err := parseRelativeTime(input, now); err == nil {
		return dueDate, nil
	} else if relativeRegex.MatchString(strings.ToLower(input)) {
		return nil, err
	}

	return nil, fmt.Errorf("invalid date format. Use: yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days, X hours or X weeks")
}

// parseCalendarDate parses yyyy-mm-dd and dd/mm/yyyy
func parseCalendarDate(input string, loc *time.Location) (*time.Time, error) {
	var year, month, day int
	if m := isoDateRegex.FindStringSubmatch(input); len(m) == 4 {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else if m := dateRegex.FindStringSubmatch(input); len(m) == 4 {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else {
		return nil, fmt.Errorf("invalid date format")
	}

	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("year must be between 2000 and 2100")
	}

	dueDate := time.Date(year, time.Month(month), day, 23, 59, 59, 0, loc)

	// time.Date normalises 31/02 into March
	if dueDate.Day() != day || dueDate.Month() != time.Month(month) {
		return nil, fmt.Errorf("invalid date")
	}
	return &dueDate, nil
}

// parseRelativeTime parses offsets like "3 days", "24 hours" or "tomorrow"
func parseRelativeTime(input string, now time.Time) (*time.Time, error) {
	input = strings.ToLower(input)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := 23*time.Hour + 59*time.Minute + 59*time.Second

	switch input {
	case "today", "hoy":
		dueDate := today.Add(endOfDay)
		return &dueDate, nil
	case "tomorrow", "mañana", "manana":
		dueDate := today.AddDate(0, 0, 1).Add(endOfDay)
		return &dueDate, nil
	}

	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}
	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "h", "hour", "hours", "hora", "horas":
		if amount < 1 || amount > 8760 {
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		dueDate := now.Add(time.Duration(amount) * time.Hour)
		return &dueDate, nil

	case "d", "day", "days", "dia", "dias", "día", "días":
		if amount < 0 || amount > 365 {
			return nil, fmt.Errorf("days must be between 0 and 365")
		}
		dueDate := today.AddDate(0, 0, amount).Add(endOfDay)
		return &dueDate, nil

	case "w", "week", "weeks", "semana", "semanas":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		dueDate := today.AddDate(0, 0, amount*7).Add(endOfDay)
		return &dueDate, nil
	}
	return nil, fmt.Errorf("unsupported time unit %q", matches[2])
}

// FormatDueDate formats a due date for display relative to now
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil {
		return ""
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	local := dueDate.In(now.Location())
	dueDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := local.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
