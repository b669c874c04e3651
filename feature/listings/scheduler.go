package listings

import (
	"context"
	"time"

	"listing-sync/feature/listings/models"

	"go.uber.org/zap"
)

// Scheduler runs a sync pass on a fixed period.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler. A non-positive interval never fires.
func NewScheduler(service *Service, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		service:  service,
		interval: interval,
		logger:   logger.With(zap.String("component", "scheduler")),
	}
}

// Start launches the background loop. The first pass runs after one interval.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	if s.interval <= 0 {
		s.logger.Info("Scheduled sync disabled")
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)

		s.logger.Info("Scheduled sync started", zap.Duration("interval", s.interval))
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Scheduled sync stopped")
				return
			case <-ticker.C:
				run, err := s.service.Sync(ctx, models.TriggerSchedule, false)
				if err != nil {
					s.logger.Error("Scheduled sync failed", zap.String("run_id", run.ID), zap.Error(err))
					continue
				}
				s.logger.Info("Scheduled sync finished",
					zap.String("run_id", run.ID),
					zap.Int("created", run.Created),
					zap.Int("updated", run.Updated),
					zap.Int("retired", run.Retired),
					zap.Int("failed", run.Failed),
				)
			}
		}
	}()
}

// Stop cancels the loop and waits for a running pass to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}
