package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingplanner/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSES struct {
	last *ses.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@example.com", "Planner", testLogger)

	err := m.Send(context.Background(), "me@example.com", "subj", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, client.last)
	assert.Equal(t, "Planner <noreply@example.com>", aws.ToString(client.last.Source))
	assert.Equal(t, []string{"me@example.com"}, client.last.Destination.ToAddresses)
	assert.Equal(t, "subj", aws.ToString(client.last.Message.Subject.Data))
	require.NotNil(t, client.last.Message.Body.Html)
	require.NotNil(t, client.last.Message.Body.Text)
	assert.Equal(t, "hi", aws.ToString(client.last.Message.Body.Text.Data))
}

func TestSESMailer_SendTextOnly(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@example.com", "", testLogger)

	require.NoError(t, m.Send(context.Background(), "me@example.com", "subj", "", "hi"))
	assert.Equal(t, "noreply@example.com", aws.ToString(client.last.Source))
	assert.Nil(t, client.last.Message.Body.Html)
}

func TestSESMailer_SendError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(client, "noreply@example.com", "", testLogger)

	err := m.Send(context.Background(), "me@example.com", "subj", "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer(t *testing.T) {
	tests := []struct {
		name    string
		config  MailerConfig
		wantErr bool
		wantSES bool
	}{
		{name: "noop", config: MailerConfig{Provider: "noop"}},
		{name: "empty provider", config: MailerConfig{}},
		{name: "unknown provider", config: MailerConfig{Provider: "carrier-pigeon"}},
		{name: "ses without region", config: MailerConfig{Provider: "ses", FromAddress: "a@b.c"}, wantErr: true},
		{name: "ses without from", config: MailerConfig{Provider: "ses", SES: SESConfig{Region: "eu-west-1"}}, wantErr: true},
		{name: "ses", config: MailerConfig{Provider: "ses", FromAddress: "a@b.c", SES: SESConfig{Region: "eu-west-1", AccessKeyID: "id", SecretAccessKey: "key"}}, wantSES: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMailer(tt.config, testLogger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
		})
	}
}

func TestNoopMailer_Send(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, testLogger)
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), "me@example.com", "s", "", "t"))
}

func TestTemplateRenderer_MeetingReminder(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.MeetingReminderEmailData{
		Email:        "me@example.com",
		Title:        "Standup <daily>",
		Start:        "2026-10-17 09:00",
		End:          "2026-10-17 09:15",
		MinutesAhead: 10,
	}

	subject, html, text, err := r.Render("meeting_reminder", data)
	require.NoError(t, err)
	assert.Equal(t, "Reminder: Standup <daily> starts at 2026-10-17 09:00", subject)
	assert.Contains(t, html, "Standup &lt;daily&gt;")
	assert.Contains(t, text, "10 minutes before")
	assert.Contains(t, text, "End:   2026-10-17 09:15")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	assert.Error(t, err)
}
