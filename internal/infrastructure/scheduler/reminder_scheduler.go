// Package scheduler runs the periodic background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fiado/backend/internal/application/billing"
	"go.uber.org/zap"
)

// ReminderScheduler drives the overdue-billing job on a fixed interval.
// Ticks are sequential: a tick that outlives the interval delays the next
// one instead of overlapping it, so two runs never race over the same
// pending orders inside one process.
type ReminderScheduler struct {
	service   *billing.ReminderService
	logger    *zap.Logger
	interval  time.Duration
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReminderScheduler creates a new reminder scheduler.
func NewReminderScheduler(service *billing.ReminderService, interval time.Duration, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		service:  service,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the tick loop. Calling Start on a running scheduler is a no-op.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Reminder scheduler started",
		zap.Duration("interval", s.interval))
	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight tick.
func (s *ReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reminder scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reminder scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs one tick immediately, outside the interval loop.
func (s *ReminderScheduler) TriggerNow(ctx context.Context) (*billing.DispatchStats, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	return s.service.DispatchDueReminders(ctx)
}

// IsRunning returns whether the scheduler is running.
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Reminder loop stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs the job once. Errors are logged, never fatal: the next tick
// retries everything still pending.
func (s *ReminderScheduler) tick(ctx context.Context) {
	start := time.Now()
	stats, err := s.service.DispatchDueReminders(ctx)
	if err != nil {
		s.logger.Error("Reminder tick failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}

	if stats.Dispatched > 0 || stats.Failed > 0 {
		s.logger.Info("Reminder tick completed",
			zap.Duration("duration", time.Since(start)),
			zap.Int("candidates", stats.Candidates),
			zap.Int("dispatched", stats.Dispatched),
			zap.Int("failed", stats.Failed))
	}
}
