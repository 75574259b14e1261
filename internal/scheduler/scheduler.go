package scheduler

import (
	"context"
	"log/slog"
	"time"

	"video_syncer/internal/domain"
)

// Syncer runs one catalog reconciliation pass against the source.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

// runTimeout bounds a single pass; a wedged API call must not block the
// next tick indefinitely.
const runTimeout = 5 * time.Minute

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if stats, err := s.syncer.Sync(syncCtx); err != nil {
		s.logger.Error("scheduled sync failed", "error", err)
	} else {
		s.logger.Info("scheduled sync finished",
			"inserted", stats.Inserted,
			"updated", stats.Updated,
		)
	}
}