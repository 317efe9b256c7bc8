package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/agencia-digital/agencia/internal/timetrack"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// setupTestDB opens a fresh database file and a controllable clock
func setupTestDB(t *testing.T) (context.Context, *testClock) {
	t.Helper()

	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "agencia.db"), false))
	clock := &testClock{now: time.Date(2026, 4, 14, 10, 0, 0, 0, time.UTC)}
	previous := Clock
	Clock = clock

	t.Cleanup(func() {
		Clock = previous
		_ = Close()
	})
	return context.Background(), clock
}

var _ timetrack.Clock = (*testClock)(nil)

func TestDebugLoggerReportsSlowQueriesOnly(t *testing.T) {
	cfg := gormLogConfig()
	assert.Equal(t, logger.Warn, cfg.LogLevel)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowThreshold)
	assert.True(t, cfg.IgnoreRecordNotFoundError)

	conn, err := Open(filepath.Join(t.TempDir(), "debug.db"), true)
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())
}
