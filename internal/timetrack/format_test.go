package timetrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agencia-digital/agencia/internal/models"
)

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"negative clamps", -500, "00:00:00"},
		{"one of each", 3661000, "01:01:01"},
		{"sub-second truncates", 999, "00:00:00"},
		{"hours past a day", (100*time.Hour + 5*time.Second).Milliseconds(), "100:00:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMillis(tt.ms))
		})
	}
	assert.Equal(t, "00:01:30", Format(90*time.Second))
}

func TestTotalDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), TotalDuration(nil))
	assert.Equal(t, 3*time.Second, TotalDuration([]models.TimeEntry{{DurationMs: 1000}, {DurationMs: 2000}}))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "45s", Short(45*time.Second))
	assert.Equal(t, "12m", Short(12*time.Minute))
	assert.Equal(t, "1.5h", Short(90*time.Minute))
}
