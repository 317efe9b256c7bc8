package timetrack

import (
	"context"
	"time"
)

// Watch calls onTick with the live elapsed time every interval while sw is
// tracking. It runs on the caller's goroutine, so onTick may itself stop the
// stopwatch; Watch then returns nil. Cancelling ctx returns ctx.Err(). The
// ticker is released on every exit path.
func Watch(ctx context.Context, sw *Stopwatch, interval time.Duration, onTick func(time.Duration)) error {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for sw.Tracking() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			onTick(sw.Tick())
		}
	}
	return nil
}
