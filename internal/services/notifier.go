package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"meetingplanner/internal/domain"
)

type writerNotifier struct {
	mu  sync.Mutex
	out io.Writer
	loc *time.Location
}

// NewWriterNotifier prints reminders as lines to out, e.g. the console.
func NewWriterNotifier(out io.Writer, loc *time.Location) domain.ReminderNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &writerNotifier{out: out, loc: loc}
}

func (n *writerNotifier) NotifyReminder(_ context.Context, m domain.Meeting) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "\n🔔 Reminder: meeting %q starts at %s\n", m.Title, m.Start.In(n.loc).Format("15:04"))
	return err
}

type emailNotifier struct {
	emails    domain.EmailService
	recipient string
	loc       *time.Location
}

// NewEmailNotifier sends each reminder to recipient through the email service.
func NewEmailNotifier(emails domain.EmailService, recipient string, loc *time.Location) domain.ReminderNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &emailNotifier{emails: emails, recipient: recipient, loc: loc}
}

func (n *emailNotifier) NotifyReminder(ctx context.Context, m domain.Meeting) error {
	minutes := 0
	if m.ReminderOffset != nil {
		minutes = int(*m.ReminderOffset / time.Minute)
	}
	return n.emails.SendMeetingReminder(ctx, &domain.MeetingReminderEmailData{
		Email:        n.recipient,
		Title:        m.Title,
		Start:        m.Start.In(n.loc).Format(domain.DateTimeLayout),
		End:          m.End.In(n.loc).Format(domain.DateTimeLayout),
		MinutesAhead: minutes,
	})
}

type multiNotifier struct {
	targets []domain.ReminderNotifier
	logger  *slog.Logger
}

// NewMultiNotifier delivers to every target. The reminder counts as delivered
// when at least one target succeeded; failures of the others are logged.
// It fails only when every target failed.
func NewMultiNotifier(logger *slog.Logger, targets ...domain.ReminderNotifier) domain.ReminderNotifier {
	return &multiNotifier{targets: targets, logger: logger}
}

func (mn *multiNotifier) NotifyReminder(ctx context.Context, m domain.Meeting) error {
	var errs []error
	for _, n := range mn.targets {
		if err := n.NotifyReminder(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 && len(errs) < len(mn.targets) {
		mn.logger.WarnContext(ctx, "reminder not delivered to every target",
			"meeting_id", m.ID, "failed", len(errs), "err", errors.Join(errs...))
		return nil
	}
	return errors.Join(errs...)
}
