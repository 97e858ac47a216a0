package client

import (
	"context"
	"time"

	"golang.org/x/exp/slog"
)

// RunWorker syncs immediately and then on every tick until the context
// is cancelled. Skipped cycles (offline, busy) are routine and only
// logged at debug level.
func (s *SyncService) RunWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SyncService) runOnce(ctx context.Context) {
	result := s.Sync(ctx)
	switch result.Status {
	case SyncSkipped:
		s.log.Debug("sync skipped", slog.String("reason", result.Reason))
	case SyncError:
		s.log.Warn("sync failed", slog.String("message", result.Message))
	}
}
