package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/crocodileps/oddsedge/internal/platform/logging"
)

// JobSchedulerService drives the resolver on a fixed cadence. The same
// resolver entrypoint is exposed over HTTP for ad-hoc operator runs; both
// paths are safe to overlap because every settlement mutation is guarded.
type JobSchedulerService struct {
	resolver *ResolverService
	interval time.Duration
	logger   *logging.Logger
}

func NewJobSchedulerService(resolver *ResolverService, interval time.Duration, logger *logging.Logger) *JobSchedulerService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &JobSchedulerService{resolver: resolver, interval: interval, logger: logger}
}

// Start launches the cadence loop and returns a wait function that blocks
// until the loop observes ctx cancellation and exits.
func (s *JobSchedulerService) Start(ctx context.Context) func() {
	var wg conc.WaitGroup
	wg.Go(func() { s.run(ctx) })
	return wg.Wait
}

func (s *JobSchedulerService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("resolver scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("resolver scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.resolver.Run(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("scheduled resolver run failed", "error", err)
			}
		}
	}
}
