package services

import (
	"context"
	"fmt"
	"log/slog"

	"meetingplanner/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendMeetingReminder sends a reminder email using the "meeting_reminder" template.
func (s *emailService) SendMeetingReminder(ctx context.Context, data *domain.MeetingReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("meeting reminder data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("meeting reminder recipient is empty")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("meeting_reminder", data)
	if err != nil {
		return fmt.Errorf("failed to render meeting_reminder template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send meeting reminder email: %w", err)
	}
	s.logger.InfoContext(ctx, "meeting reminder email sent", "to", data.Email, "title", data.Title)
	return nil
}
