// Package priority scores tasks by urgency from their tier and deadline.
package priority

import (
	"strings"
	"time"
)

// Tier is a task priority level
type Tier string

const (
	TierHigh   Tier = "Alta"
	TierMedium Tier = "Media"
	TierLow    Tier = "Baja"
)

// Labels, highest urgency first
const (
	LabelCritical   = "Crítica"
	LabelUrgent     = "Urgente"
	LabelHigh       = "Alta"
	LabelMediumHigh = "Media-Alta"
	LabelMedium     = "Media"
	LabelMediumLow  = "Media-Baja"
	LabelLow        = "Baja"
)

// Score is the derived urgency of a task. It is never stored.
type Score struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var tierBase = map[Tier]int{
	TierHigh:   100,
	TierMedium: 50,
	TierLow:    10,
}

var buckets = []struct {
	min   int
	label string
	color string
}{
	{200, LabelCritical, "red"},
	{150, LabelUrgent, "orange"},
	{100, LabelHigh, "amber"},
	{75, LabelMediumHigh, "yellow"},
	{50, LabelMedium, "blue"},
	{25, LabelMediumLow, "green"},
}

// ParseTier normalises user input to a Tier. Unknown input yields "" and
// false; Base treats that as zero.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high", "3":
		return TierHigh, true
	case "media", "medium", "med", "2":
		return TierMedium, true
	case "baja", "low", "1":
		return TierLow, true
	}
	return "", false
}

// Base returns the weight of a canonical tier (Alta, Media, Baja). Anything
// else, aliases included, weighs 0; normalise input with ParseTier first.
func Base(tier string) int {
	return tierBase[Tier(tier)]
}

// DaysUntil counts calendar days from now to due in now's location.
// Negative means overdue, 0 means due today.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	d := due.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}

// DeadlineBonus maps days to deadline onto the urgency bonus
func DeadlineBonus(days int) int {
	switch {
	case days < 0:
		return 200
	case days == 0:
		return 150
	case days <= 1:
		return 100
	case days <= 3:
		return 75
	case days <= 7:
		return 50
	default:
		return 25
	}
}

// farFutureBonus applies to tasks without a usable due date
var farFutureBonus = DeadlineBonus(1 << 20)

// Label buckets a numeric score
func Label(score int) (label, color string) {
	for _, b := range buckets {
		if score >= b.min {
			return b.label, b.color
		}
	}
	return LabelLow, "gray"
}

// Compute scores a task due at due, evaluated at now
func Compute(tier string, due time.Time, now time.Time) Score {
	return fromTotal(Base(tier) + DeadlineBonus(DaysUntil(due, now)))
}

// ComputeOptional scores a task whose due date may be unset
func ComputeOptional(tier string, due *time.Time, now time.Time) Score {
	if due == nil || due.IsZero() {
		return fromTotal(Base(tier) + farFutureBonus)
	}
	return Compute(tier, *due, now)
}

// ComputeString scores a task with an ISO (yyyy-mm-dd or RFC 3339) due date.
// Unparsable dates count as far future.
func ComputeString(tier, due string, now time.Time) Score {
	t, ok := parseDue(due, now.Location())
	if !ok {
		return fromTotal(Base(tier) + farFutureBonus)
	}
	return Compute(tier, t, now)
}

func parseDue(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func fromTotal(total int) Score {
	label, color := Label(total)
	return Score{Score: total, Label: label, Color: color}
}
