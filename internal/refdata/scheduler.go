package refdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler refreshes the reference data cache on a cron schedule so a
// long-running server picks up new symbols and reweighted timeframes without
// a restart.
type Scheduler struct {
	cron      *cron.Cron
	cache     *Cache
	logger    *logrus.Logger
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a refresh scheduler for the given cache
func NewScheduler(refCache *Cache, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		cache:  refCache,
		logger: logger,
	}
}

// Start schedules the refresh job and starts the cron loop
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.cache.Refresh(ctx); err != nil {
			s.logger.WithError(err).Warn("Scheduled reference data refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("schedule", schedule).Info("Reference data refresh scheduled")
	return nil
}

// Stop halts the cron loop, waiting for a running refresh to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
}
