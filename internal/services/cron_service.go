package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages the scheduled background jobs: the daily subscription
// lifecycle sweep and the per-minute purchase-intent expiry.
type CronService struct {
	cron      *cron.Cron
	lifecycle *LifecycleService
	intents   *IntentService
	logger    *logrus.Logger

	sweepEntry  cron.EntryID
	intentEntry cron.EntryID
}

// NewCronService creates a new CronService
func NewCronService(lifecycle *LifecycleService, intents *IntentService, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:      cron.New(cron.WithSeconds()),
		lifecycle: lifecycle,
		intents:   intents,
		logger:    logger,
	}
}

// Start schedules and starts all jobs
func (s *CronService) Start() error {
	// Lifecycle sweep daily at 00:15, after the billing day has rolled over
	id, err := s.cron.AddFunc("0 15 0 * * *", s.lifecycle.Sweep)
	if err != nil {
		return fmt.Errorf("failed to schedule lifecycle sweep: %w", err)
	}
	s.sweepEntry = id

	// Intent expiry every minute
	id, err = s.cron.AddFunc("0 * * * * *", s.intents.SweepExpired)
	if err != nil {
		return fmt.Errorf("failed to schedule intent expiry: %w", err)
	}
	s.intentEntry = id

	s.cron.Start()
	s.logger.Info("Cron service started: lifecycle sweep daily at 00:15, intent expiry every minute")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// RunLifecycleSweepNow triggers the lifecycle sweep immediately
func (s *CronService) RunLifecycleSweepNow() {
	go s.lifecycle.Sweep()
}

// RunIntentSweepNow triggers the intent expiry sweep immediately
func (s *CronService) RunIntentSweepNow() {
	go s.intents.SweepExpired()
}

// JobStatus reports the next scheduled run of each job
func (s *CronService) JobStatus() map[string]interface{} {
	return map[string]interface{}{
		"lifecycle_sweep_next": s.cron.Entry(s.sweepEntry).Next,
		"intent_expiry_next":   s.cron.Entry(s.intentEntry).Next,
	}
}
