package runner

import (
	"context"
	"log/slog"
	"time"
)

// DefaultUnlimitedWarningInterval is how often a case running without a
// timeout is reported as still running.
const DefaultUnlimitedWarningInterval = 5 * time.Minute

// monitorUnlimitedExecution starts monitoring a case running without timeout.
// Returns a cancel function that must be called when the case finishes.
// Logs a warning every interval while the case is still running.
func monitorUnlimitedExecution(ctx context.Context, caseName string, interval time.Duration) context.CancelFunc {
	monitorCtx, cancel := context.WithCancel(ctx)
	if interval <= 0 {
		return cancel
	}
	startTime := time.Now()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				slog.Warn("Case running for extended period with unlimited timeout",
					"case", caseName,
					"duration", time.Since(startTime).Round(time.Second))
			case <-monitorCtx.Done():
				return
			}
		}
	}()

	return cancel
}
