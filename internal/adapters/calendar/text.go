package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"meetingplanner/internal/domain"
)

// TextFormatter writes one line per meeting:
//
//	2026-10-17 09:00-09:15 | Standup | reminder 10m | id 5c1e...
//
// Meetings without a reminder carry "reminder none". Titles have line breaks
// and the field separator replaced so every meeting stays on one line.
type TextFormatter struct {
	Location *time.Location
}

func NewTextFormatter(loc *time.Location) *TextFormatter {
	return &TextFormatter{Location: loc}
}

func (f *TextFormatter) ContentType() string   { return "text/plain; charset=utf-8" }
func (f *TextFormatter) FileExtension() string { return ".txt" }

func (f *TextFormatter) Format(w io.Writer, _ time.Time, meetings []domain.Meeting) error {
	for _, m := range meetings {
		if _, err := io.WriteString(w, f.Line(m)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Line renders a single meeting without the trailing newline.
func (f *TextFormatter) Line(m domain.Meeting) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	start := m.Start.In(loc)
	end := m.End.In(loc)

	endLayout := "15:04"
	if !sameDate(start, end) {
		endLayout = domain.DateTimeLayout
	}

	reminder := "none"
	if m.ReminderOffset != nil {
		reminder = domain.FormatOffset(*m.ReminderOffset)
	}

	return fmt.Sprintf("%s-%s | %s | reminder %s | id %s",
		start.Format(domain.DateTimeLayout), end.Format(endLayout), sanitizeTitle(m.Title), reminder, m.ID)
}

var titleReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", "/")

func sanitizeTitle(s string) string {
	return titleReplacer.Replace(s)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
