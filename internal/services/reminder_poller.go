package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"meetingplanner/internal/domain"
)

// DefaultPollInterval is a human-scale reminder cadence.
const DefaultPollInterval = 30 * time.Second

// ReminderPoller periodically delivers due reminders and acknowledges the
// ones that were delivered. Delivery is at-least-once: a reminder whose
// notifier fails stays due and is retried on the next tick.
type ReminderPoller struct {
	store    domain.MeetingStore
	notifier domain.ReminderNotifier
	interval time.Duration
	logger   *slog.Logger
}

// NewReminderPoller returns a poller. A non-positive interval falls back to DefaultPollInterval.
func NewReminderPoller(store domain.MeetingStore, notifier domain.ReminderNotifier, interval time.Duration, logger *slog.Logger) *ReminderPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &ReminderPoller{
		store:    store,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// Interval reports the effective polling cadence.
func (p *ReminderPoller) Interval() time.Duration { return p.interval }

// Run polls once right away and then on every interval until ctx is done.
// It returns after the in-flight poll, if any, has finished.
func (p *ReminderPoller) Run(ctx context.Context) error {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(p.logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)
	c.Schedule(cron.Every(p.interval), cron.FuncJob(func() {
		p.Poll(ctx)
	}))

	p.logger.InfoContext(ctx, "reminder poller started", "interval", p.interval.String())
	p.Poll(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()

	p.logger.Info("reminder poller stopped")
	return nil
}

// Poll delivers every currently due reminder and returns how many were acknowledged.
func (p *ReminderPoller) Poll(ctx context.Context) int {
	due := p.store.GetUpcomingReminders()
	acked := 0
	for _, m := range due {
		if ctx.Err() != nil {
			break
		}
		at, ok := m.ReminderTime()
		if !ok {
			continue
		}
		if err := p.notifier.NotifyReminder(ctx, m); err != nil {
			p.logger.ErrorContext(ctx, "reminder delivery failed", "meeting_id", m.ID, "title", m.Title, "err", err)
			continue
		}
		if p.store.AcknowledgeReminder(m.ID, at) {
			acked++
		}
	}
	if len(due) > 0 {
		p.logger.DebugContext(ctx, "reminders polled", "due", len(due), "acknowledged", acked)
	}
	return acked
}
