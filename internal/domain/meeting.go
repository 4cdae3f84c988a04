package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrInvalidTiming = errors.New("invalid meeting timing")
	ErrConflict      = errors.New("meeting overlaps an existing meeting")
	ErrNotFound      = errors.New("meeting not found")
	ErrExportFailed  = errors.New("schedule export failed")

	// ErrUnsupportedEvent marks a calendar entry that cannot become a one-off meeting.
	ErrUnsupportedEvent = errors.New("unsupported calendar event")
)

// ConflictError reports the stored meeting a candidate collided with.
// errors.Is(err, ErrConflict) holds for it.
type ConflictError struct {
	Existing Meeting
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
	}
	return fmt.Sprintf("%s %q (%s - %s)", ErrConflict, e.Existing.Title,
		e.Existing.Start.Format(DateTimeLayout), e.Existing.End.Format(DateTimeLayout))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// DateTimeLayout and DateLayout are the textual forms used by every front end.
const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// Meeting is a single time-bounded entry in the schedule.
type Meeting struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	ReminderOffset *time.Duration `json:"-"`
}

// NewMeeting returns a Meeting without an ID. The store assigns one on insert.
// A zero reminder is stored as "no reminder".
func NewMeeting(title string, start, end time.Time, reminder time.Duration) Meeting {
	m := Meeting{Title: title, Start: start, End: end}
	if reminder > 0 {
		m.ReminderOffset = &reminder
	}
	return m
}

// ReminderTime is Start minus the reminder offset. ok is false when no reminder is set.
func (m Meeting) ReminderTime() (t time.Time, ok bool) {
	if m.ReminderOffset == nil {
		return time.Time{}, false
	}
	return m.Start.Add(-*m.ReminderOffset), true
}

// Overlaps uses half-open [Start, End) intervals: touching endpoints do not overlap.
func (m Meeting) Overlaps(other Meeting) bool {
	return m.Start.Before(other.End) && m.End.After(other.Start)
}

// Clone returns a deep copy; the reminder offset pointer is not shared.
func (m Meeting) Clone() Meeting {
	out := m
	if m.ReminderOffset != nil {
		d := *m.ReminderOffset
		out.ReminderOffset = &d
	}
	return out
}

// Fields returns the editable part of the meeting as a working copy.
func (m Meeting) Fields() MeetingFields {
	c := m.Clone()
	return MeetingFields{
		Title:          c.Title,
		Start:          c.Start,
		End:            c.End,
		ReminderOffset: c.ReminderOffset,
	}
}

// WithFields returns a copy of m carrying the given fields and m's ID.
func (m Meeting) WithFields(f MeetingFields) Meeting {
	out := Meeting{
		ID:             m.ID,
		Title:          f.Title,
		Start:          f.Start,
		End:            f.End,
		ReminderOffset: f.ReminderOffset,
	}
	return out.Clone()
}

func (m Meeting) String() string {
	s := fmt.Sprintf("%s - %s %s", m.Start.Format(DateTimeLayout), m.End.Format("15:04"), m.Title)
	if m.ReminderOffset != nil {
		s += fmt.Sprintf(" (reminder %s before)", FormatOffset(*m.ReminderOffset))
	}
	return s
}

// FormatOffset renders a reminder offset as whole minutes, e.g. "10m".
func FormatOffset(d time.Duration) string {
	return fmt.Sprintf("%dm", int(d/time.Minute))
}

// MeetingFields is the mutable working copy an update mutation operates on.
type MeetingFields struct {
	Title          string
	Start          time.Time
	End            time.Time
	ReminderOffset *time.Duration
}

// SetReminderMinutes sets the offset; zero or negative clears it.
func (f *MeetingFields) SetReminderMinutes(minutes int) {
	if minutes <= 0 {
		f.ReminderOffset = nil
		return
	}
	d := time.Duration(minutes) * time.Minute
	f.ReminderOffset = &d
}

// MeetingMutation edits a working copy during UpdateMeeting. It must not retain f.
type MeetingMutation func(f *MeetingFields)

// MeetingStore is the authoritative in-memory meeting collection.
type MeetingStore interface {
	GetMeetingsForDay(date time.Time) []Meeting
	Get(id string) (Meeting, bool)
	Len() int

	AddMeeting(ctx context.Context, m Meeting) (Meeting, error)
	UpdateMeeting(ctx context.Context, id string, mutate MeetingMutation) (Meeting, error)
	DeleteMeeting(ctx context.Context, id string) bool

	GetUpcomingReminders() []Meeting
	RemoveReminder(id string) bool
	AcknowledgeReminder(id string, due time.Time) bool
}

// ExportFormat names a day schedule rendering.
type ExportFormat string

const (
	ExportFormatText ExportFormat = "text"
	ExportFormatICS  ExportFormat = "ics"
)

// ScheduleFormatter renders one day's meetings (already sorted by start) to w.
type ScheduleFormatter interface {
	Format(w io.Writer, day time.Time, meetings []Meeting) error
	ContentType() string
	FileExtension() string
}

// ExportService projects a day schedule onto an external sink.
type ExportService interface {
	ExportDaySchedule(ctx context.Context, date time.Time, format ExportFormat, dst io.Writer) error
	ExportDayScheduleToFile(ctx context.Context, date time.Time, format ExportFormat, path string) error
	Formatter(format ExportFormat) (ScheduleFormatter, bool)
}

// ImportResult summarises a calendar import. Failed maps an event key (its
// title, or "title @ start" when that is taken) to the rejection or skip reason.
type ImportResult struct {
	Imported []Meeting
	Failed   map[string]error
}

// SkippedEvent is a calendar entry the decoder could not turn into a meeting.
// Start is zero when the entry had no usable start.
type SkippedEvent struct {
	Title  string
	Start  time.Time
	Reason error
}

// DecodedCalendar holds the meetings read from a calendar document and the
// entries that were left out.
type DecodedCalendar struct {
	Meetings []Meeting
	Skipped  []SkippedEvent
}

// CalendarDecoder turns an external calendar document into meeting values without IDs.
type CalendarDecoder interface {
	DecodeMeetings(r io.Reader) (DecodedCalendar, error)
}

// ImportService adds externally described meetings through the store's validation.
type ImportService interface {
	ImportICS(ctx context.Context, r io.Reader) (ImportResult, error)
}

// ReminderNotifier delivers one due reminder. A returned error leaves the reminder due.
type ReminderNotifier interface {
	NotifyReminder(ctx context.Context, m Meeting) error
}

// CalendarFetcher retrieves a remote calendar document. The caller closes the body.
type CalendarFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
