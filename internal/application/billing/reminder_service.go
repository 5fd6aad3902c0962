package billing

import (
	"context"
	"time"

	"github.com/fiado/backend/internal/domain/billing"
	"github.com/fiado/backend/internal/domain/ordering"
	"go.uber.org/zap"
)

// MessageDispatcher sends a text to a phone number already normalized to
// digits-only form with a country code. Implementations must apply a
// bounded timeout so one slow provider call cannot stall a whole tick.
type MessageDispatcher interface {
	Send(ctx context.Context, phone, text string) error
}

// ReminderService is the overdue-billing job body: it scans open orders,
// computes the amount due today and dispatches a WhatsApp reminder at most
// once per order. Failure is isolated per order; a failed dispatch leaves
// the order pending so the next tick retries it indefinitely.
type ReminderService struct {
	orders     ordering.OrderRepository
	dispatcher MessageDispatcher
	calc       billing.InterestCalculator
	logger     *zap.Logger

	// Now is the clock used for eligibility and interest accrual.
	// Overridable in tests.
	Now func() time.Time
}

// NewReminderService creates a new ReminderService.
func NewReminderService(
	orders ordering.OrderRepository,
	dispatcher MessageDispatcher,
	calc billing.InterestCalculator,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		orders:     orders,
		dispatcher: dispatcher,
		calc:       calc,
		logger:     logger,
		Now:        time.Now,
	}
}

// DispatchStats summarizes one job run.
type DispatchStats struct {
	Candidates   int       `json:"candidates"`
	Dispatched   int       `json:"dispatched"`
	NotDueYet    int       `json:"not_due_yet"`
	MissingPhone int       `json:"missing_phone"`
	MalformedDue int       `json:"malformed_due"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// DispatchDueReminders runs one tick of the reminder job. Candidates are
// processed sequentially and each successful dispatch is committed before
// the next candidate, so a mid-batch crash re-sends at most the in-flight
// order (the documented at-least-once-on-crash window).
func (s *ReminderService) DispatchDueReminders(ctx context.Context) (*DispatchStats, error) {
	now := s.Now()
	stats := &DispatchStats{ProcessedAt: now}

	candidates, err := s.orders.FindPendingNotification(ctx)
	if err != nil {
		s.logger.Error("Failed to load pending orders", zap.Error(err))
		return nil, err
	}
	stats.Candidates = len(candidates)
	if stats.Candidates == 0 {
		return stats, nil
	}

	for i := range candidates {
		s.processCandidate(ctx, &candidates[i], now, stats)
	}

	if stats.Dispatched > 0 || stats.Failed > 0 {
		s.logger.Info("Reminder run completed",
			zap.Int("candidates", stats.Candidates),
			zap.Int("dispatched", stats.Dispatched),
			zap.Int("failed", stats.Failed),
		)
	}
	return stats, nil
}

// processCandidate handles a single order; it never lets one order's
// problem abort the batch.
func (s *ReminderService) processCandidate(ctx context.Context, row *ordering.BillableOrder, now time.Time, stats *DispatchStats) {
	order := &row.Order

	if order.DueDate.IsZero() {
		// Data-quality problem: needs a human fix, not a crash.
		s.logger.Warn("Order has no usable due date, skipping",
			zap.String("order_id", order.ID.String()))
		stats.MalformedDue++
		return
	}

	dueInstant := order.DueInstant()
	if now.Before(dueInstant) {
		stats.NotDueYet++
		return
	}

	phone := ordering.DialNumber(row.ClientPhone)
	if phone == "" {
		// Stays OPEN_PENDING until the client record is fixed.
		s.logger.Warn("Client has no usable phone, skipping",
			zap.String("order_id", order.ID.String()),
			zap.String("client", row.ClientName))
		stats.MissingPhone++
		return
	}

	charge := s.calc.ChargeAt(order.Principal(row.UnitPrice), dueInstant, now)
	text := renderReminder(row, charge, dueInstant, s.calc.DailyRate)

	if err := s.dispatcher.Send(ctx, phone, text); err != nil {
		// Transient by assumption: retried on every tick, no backoff.
		s.logger.Warn("Reminder dispatch failed, will retry next tick",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		stats.Failed++
		return
	}

	marked, err := s.orders.MarkNotified(ctx, order.ID, now)
	if err != nil {
		// The message went out but the flag did not stick: the next tick
		// may send a duplicate. Surface loudly.
		s.logger.Error("Dispatch succeeded but order was not marked notified",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		stats.Failed++
		return
	}
	if !marked {
		s.logger.Warn("Order already notified or settled concurrently",
			zap.String("order_id", order.ID.String()))
		return
	}

	stats.Dispatched++
	s.logger.Debug("Reminder dispatched",
		zap.String("order_id", order.ID.String()),
		zap.String("total", charge.Total.StringFixed(2)),
		zap.Int("days_late", charge.DaysLate))
}
