package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// MeetingReminderEmailData holds data for the meeting reminder email.
type MeetingReminderEmailData struct {
	Email        string
	Title        string
	Start        string
	End          string
	MinutesAhead int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendMeetingReminder(ctx context.Context, data *MeetingReminderEmailData) error
}
