// Package console implements the interactive text menu over a MeetingStore.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"meetingplanner/internal/domain"
)

// errInputClosed is returned by prompt when input ends or ctx is cancelled.
var errInputClosed = errors.New("input closed")

// Config wires a Menu. In and Out default to stdin and stdout.
type Config struct {
	Store     domain.MeetingStore
	Export    domain.ExportService
	Import    domain.ImportService
	Fetcher   domain.CalendarFetcher
	In        io.Reader
	Out       io.Writer
	Location  *time.Location
	ExportDir string
	Logger    *slog.Logger
}

// Menu is a line-oriented front end: every action reads its arguments one
// prompt at a time and reports the outcome on Out.
type Menu struct {
	store     domain.MeetingStore
	export    domain.ExportService
	imp       domain.ImportService
	fetcher   domain.CalendarFetcher
	in        io.Reader
	out       io.Writer
	loc       *time.Location
	exportDir string
	logger    *slog.Logger

	lines  chan string
	done   chan struct{}
	reader chan struct{} // closed when the line reader has returned
}

func NewMenu(cfg Config) *Menu {
	m := &Menu{
		store:     cfg.Store,
		export:    cfg.Export,
		imp:       cfg.Import,
		fetcher:   cfg.Fetcher,
		in:        cfg.In,
		out:       cfg.Out,
		loc:       cfg.Location,
		exportDir: cfg.ExportDir,
		logger:    cfg.Logger,
	}
	if m.in == nil {
		m.in = os.Stdin
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Run shows the menu until the user picks exit, input ends, or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	m.lines = make(chan string)
	m.done = make(chan struct{})
	m.reader = make(chan struct{})
	defer close(m.done)
	go m.readLines(m.lines, m.done, m.reader)

	m.println("Meeting planner.")
	for {
		m.println("\nMenu:")
		m.println("1. Add meeting")
		m.println("2. Edit meeting")
		m.println("3. Delete meeting")
		m.println("4. View meetings for a day")
		m.println("5. Export day to file")
		m.println("6. Import .ics file or URL")
		m.println("0. Exit")

		choice, err := m.prompt(ctx, "Choice: ")
		if err != nil {
			return nil
		}

		switch choice {
		case "1":
			err = m.addMeeting(ctx)
		case "2":
			err = m.editMeeting(ctx)
		case "3":
			err = m.deleteMeeting(ctx)
		case "4":
			err = m.viewDay(ctx)
		case "5":
			err = m.exportDay(ctx)
		case "6":
			err = m.importCalendar(ctx)
		case "0":
			return nil
		default:
			m.println("Invalid choice.")
		}
		if errors.Is(err, errInputClosed) {
			return nil
		}
	}
}

// readLines feeds lines until input ends or done is closed. A read that is
// blocked when Run returns finishes first; the line it yields is dropped.
func (m *Menu) readLines(lines chan<- string, done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	defer close(lines)
	sc := bufio.NewScanner(m.in)
	for sc.Scan() {
		select {
		case lines <- strings.TrimRight(sc.Text(), "\r"):
		case <-done:
			return
		}
	}
}

func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		return "", errInputClosed
	case line, ok := <-m.lines:
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Menu) addMeeting(ctx context.Context) error {
	title, err := m.prompt(ctx, "Title: ")
	if err != nil {
		return err
	}
	start, ok, err := m.promptDateTime(ctx, "Start (YYYY-MM-DD HH:MM): ")
	if err != nil || !ok {
		return err
	}
	end, ok, err := m.promptDateTime(ctx, "End (YYYY-MM-DD HH:MM): ")
	if err != nil || !ok {
		return err
	}
	in, err := m.prompt(ctx, "Reminder (minutes before start, blank for none): ")
	if err != nil {
		return err
	}
	reminder := time.Duration(0)
	if in != "" {
		minutes, perr := strconv.Atoi(in)
		if perr != nil || minutes < 0 {
			m.println("Error: reminder must be a non-negative number of minutes.")
			return nil
		}
		reminder = time.Duration(minutes) * time.Minute
	}

	stored, err := m.store.AddMeeting(ctx, domain.NewMeeting(title, start, end, reminder))
	if err != nil {
		m.printf("Error: %s\n", describe(err))
		return nil
	}
	m.printf("Meeting added: %s\n", m.line(stored))
	return nil
}

func (m *Menu) editMeeting(ctx context.Context) error {
	target, ok, err := m.pickMeeting(ctx, "Meeting to edit: ")
	if err != nil || !ok {
		return err
	}

	title, err := m.prompt(ctx, "New title (blank keeps): ")
	if err != nil {
		return err
	}
	startIn, err := m.prompt(ctx, "New start (blank keeps): ")
	if err != nil {
		return err
	}
	endIn, err := m.prompt(ctx, "New end (blank keeps): ")
	if err != nil {
		return err
	}
	reminderIn, err := m.prompt(ctx, "New reminder in minutes (= keeps, blank or - removes): ")
	if err != nil {
		return err
	}

	var start, end time.Time
	if startIn != "" {
		if start, err = time.ParseInLocation(domain.DateTimeLayout, startIn, m.loc); err != nil {
			m.println("Error: start must be YYYY-MM-DD HH:MM.")
			return nil
		}
	}
	if endIn != "" {
		if end, err = time.ParseInLocation(domain.DateTimeLayout, endIn, m.loc); err != nil {
			m.println("Error: end must be YYYY-MM-DD HH:MM.")
			return nil
		}
	}
	minutes := 0
	keepReminder := reminderIn == "="
	clearReminder := reminderIn == "" || reminderIn == "-"
	if !keepReminder && !clearReminder {
		if minutes, err = strconv.Atoi(reminderIn); err != nil || minutes < 0 {
			m.println("Error: reminder must be a non-negative number of minutes.")
			return nil
		}
	}

	updated, err := m.store.UpdateMeeting(ctx, target.ID, func(f *domain.MeetingFields) {
		if title != "" {
			f.Title = title
		}
		if startIn != "" {
			f.Start = start
		}
		if endIn != "" {
			f.End = end
		}
		switch {
		case keepReminder:
		case clearReminder:
			f.ReminderOffset = nil
		default:
			f.SetReminderMinutes(minutes)
		}
	})
	if err != nil {
		m.printf("Error: %s. The meeting was not changed.\n", describe(err))
		return nil
	}
	m.printf("Meeting updated: %s\n", m.line(updated))
	return nil
}

func (m *Menu) deleteMeeting(ctx context.Context) error {
	target, ok, err := m.pickMeeting(ctx, "Meeting to delete: ")
	if err != nil || !ok {
		return err
	}
	if !m.store.DeleteMeeting(ctx, target.ID) {
		m.println("The meeting no longer exists.")
		return nil
	}
	m.println("Meeting deleted.")
	return nil
}

func (m *Menu) viewDay(ctx context.Context) error {
	day, ok, err := m.promptDate(ctx)
	if err != nil || !ok {
		return err
	}
	meetings := m.store.GetMeetingsForDay(day)
	if len(meetings) == 0 {
		m.println("No meetings on this day.")
		return nil
	}
	for _, mt := range meetings {
		m.println(m.line(mt))
	}
	return nil
}

func (m *Menu) exportDay(ctx context.Context) error {
	day, ok, err := m.promptDate(ctx)
	if err != nil || !ok {
		return err
	}
	formatIn, err := m.prompt(ctx, "Format (text/ics, blank for text): ")
	if err != nil {
		return err
	}
	format := domain.ExportFormat(strings.ToLower(formatIn))
	if format == "" {
		format = domain.ExportFormatText
	}
	formatter, known := m.export.Formatter(format)
	if !known {
		m.printf("Error: unknown format %q.\n", formatIn)
		return nil
	}

	defaultPath := filepath.Join(m.exportDir, "meetings_"+day.Format(domain.DateLayout)+formatter.FileExtension())
	path, err := m.prompt(ctx, fmt.Sprintf("File path (blank for %s): ", defaultPath))
	if err != nil {
		return err
	}
	if path == "" {
		path = defaultPath
	}

	if err := m.export.ExportDayScheduleToFile(ctx, day, format, path); err != nil {
		m.logger.WarnContext(ctx, "console export failed", "path", path, "err", err)
		m.printf("Error: %s\n", describe(err))
		return nil
	}
	m.printf("Exported to %s\n", path)
	return nil
}

func (m *Menu) importCalendar(ctx context.Context) error {
	source, err := m.prompt(ctx, "Path or URL of .ics file: ")
	if err != nil {
		return err
	}
	body, err := m.openCalendar(ctx, source)
	if err != nil {
		m.printf("Error: %s\n", err)
		return nil
	}
	defer body.Close()

	result, err := m.imp.ImportICS(ctx, body)
	if err != nil {
		m.printf("Error: %s\n", err)
		return nil
	}
	m.printf("Imported %d meeting(s).\n", len(result.Imported))
	for title, ferr := range result.Failed {
		m.printf("  skipped %q: %s\n", title, describe(ferr))
	}
	return nil
}

func (m *Menu) openCalendar(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if m.fetcher == nil {
			return nil, errors.New("importing from a URL is not available")
		}
		return m.fetcher.Fetch(ctx, source)
	}
	return os.Open(source)
}

// pickMeeting lists a day's meetings and returns the one the user selects.
// ok is false when the user's answer did not identify a meeting.
func (m *Menu) pickMeeting(ctx context.Context, label string) (domain.Meeting, bool, error) {
	day, ok, err := m.promptDate(ctx)
	if err != nil || !ok {
		return domain.Meeting{}, false, err
	}
	meetings := m.store.GetMeetingsForDay(day)
	if len(meetings) == 0 {
		m.println("No meetings on this day.")
		return domain.Meeting{}, false, nil
	}
	for i, mt := range meetings {
		m.printf("%d. %s\n", i+1, m.line(mt))
	}
	in, err := m.prompt(ctx, label)
	if err != nil {
		return domain.Meeting{}, false, err
	}
	idx, perr := strconv.Atoi(in)
	if perr != nil || idx < 1 || idx > len(meetings) {
		m.println("Invalid number.")
		return domain.Meeting{}, false, nil
	}
	return meetings[idx-1], true, nil
}

func (m *Menu) promptDate(ctx context.Context) (time.Time, bool, error) {
	in, err := m.prompt(ctx, "Date (YYYY-MM-DD): ")
	if err != nil {
		return time.Time{}, false, err
	}
	day, perr := time.ParseInLocation(domain.DateLayout, in, m.loc)
	if perr != nil {
		m.println("Error: date must be YYYY-MM-DD.")
		return time.Time{}, false, nil
	}
	return day, true, nil
}

func (m *Menu) promptDateTime(ctx context.Context, label string) (time.Time, bool, error) {
	in, err := m.prompt(ctx, label)
	if err != nil {
		return time.Time{}, false, err
	}
	t, perr := time.ParseInLocation(domain.DateTimeLayout, in, m.loc)
	if perr != nil {
		m.println("Error: expected YYYY-MM-DD HH:MM.")
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (m *Menu) line(mt domain.Meeting) string {
	mt.Start = mt.Start.In(m.loc)
	mt.End = mt.End.In(m.loc)
	return mt.String()
}

// describe turns a store error into a sentence for the console.
func describe(err error) string {
	if errors.Is(err, domain.ErrNotFound) {
		return "the meeting no longer exists"
	}
	return err.Error()
}

// SyncWriter serialises writes so the menu and reminder notifications can
// share one terminal.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
