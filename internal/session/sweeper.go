package session

import (
	"context"
	"log/slog"
	"time"
)

// CleanupCallback is called for each session removed by the sweeper.
type CleanupCallback func(sessionID string)

// StartSweeper runs a background goroutine that periodically deletes sessions
// whose last activity exceeds maxAge. The sweep defers to the same locking
// discipline as Delete, so it is safe alongside any session operation.
func StartSweeper(ctx context.Context, reg *Registry, interval, maxAge time.Duration, onCleanup CleanupCallback) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "max_age", maxAge)

		for {
			select {
			case <-ticker.C:
				removed := reg.Sweep(maxAge)
				if len(removed) == 0 {
					continue
				}
				slog.Info("Session sweeper removed stale sessions", "count", len(removed))
				if onCleanup != nil {
					for _, id := range removed {
						onCleanup(id)
					}
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
