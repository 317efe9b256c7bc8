package timetrack

import (
	"fmt"
	"time"

	"github.com/agencia-digital/agencia/internal/models"
)

// TotalDuration sums the stored durations of entries. Open entries count
// with whatever duration they last persisted.
func TotalDuration(entries []models.TimeEntry) time.Duration {
	var total int64
	for _, e := range entries {
		total += e.DurationMs
	}
	return time.Duration(total) * time.Millisecond
}

// FormatMillis renders ms as HH:MM:SS. Negative input renders as 00:00:00
// and hours grow past 99 rather than rolling into days.
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Format renders d as HH:MM:SS
func Format(d time.Duration) string {
	return FormatMillis(d.Milliseconds())
}

// Short formats a duration compactly for one-line CLI output
func Short(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
