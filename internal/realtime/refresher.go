package realtime

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/peekr/outreach/internal/logging"
	"github.com/peekr/outreach/internal/sheets"
)

// Refresher rebuilds the sheet cache and notifies subscribers.
type Refresher interface {
	Refresh(ctx context.Context) (*sheets.Snapshot, error)
}

// StartRefresher refreshes on every tick of interval until ctx is done.
// A non-positive interval disables it. Failures are logged and the
// previous cache state is left to the loader.
func StartRefresher(ctx context.Context, refresher Refresher, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, err := refresher.Refresh(ctx)
				if err != nil {
					logging.L().Warn("scheduled refresh failed", zap.Error(err))
					continue
				}
				logging.L().Debug("scheduled refresh completed",
					zap.String("generation", snap.Generation.String()))
			}
		}
	}()
}
