package calendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"meetingplanner/internal/domain"
)

const productID = "-//meetingplanner//day schedule//EN"

// ICSFormatter renders a day schedule as an iCalendar document. Meetings
// with a reminder get a DISPLAY alarm triggered the offset before start.
type ICSFormatter struct {
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

func NewICSFormatter() *ICSFormatter {
	return &ICSFormatter{Now: time.Now}
}

func (f *ICSFormatter) ContentType() string   { return "text/calendar; charset=utf-8" }
func (f *ICSFormatter) FileExtension() string { return ".ics" }

func (f *ICSFormatter) Format(w io.Writer, _ time.Time, meetings []domain.Meeting) error {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, m := range meetings {
		ev := cal.AddEvent(m.ID)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(m.Start.UTC())
		ev.SetEndAt(m.End.UTC())
		ev.SetSummary(m.Title)

		if m.ReminderOffset != nil {
			alarm := ev.AddAlarm()
			alarm.SetAction(ical.ActionDisplay)
			alarm.SetTrigger(formatTrigger(*m.ReminderOffset))
			alarm.SetProperty(ical.ComponentPropertyDescription, m.Title)
		}
	}

	return cal.SerializeTo(w)
}

// ICSDecoder reads single, timed VEVENTs. Recurring and all-day events, and
// events without a usable start or end, are returned as skipped with the reason.
type ICSDecoder struct{}

func NewICSDecoder() *ICSDecoder { return &ICSDecoder{} }

func (d *ICSDecoder) DecodeMeetings(r io.Reader) (domain.DecodedCalendar, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return domain.DecodedCalendar{}, fmt.Errorf("parse ics: %w", err)
	}

	out := domain.DecodedCalendar{Meetings: make([]domain.Meeting, 0)}
	for _, ve := range cal.Events() {
		title := ""
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			title = p.Value
		}
		m, err := decodeEvent(ve)
		if err != nil {
			out.Skipped = append(out.Skipped, domain.SkippedEvent{Title: title, Start: m.Start, Reason: err})
			continue
		}
		m.Title = title
		out.Meetings = append(out.Meetings, m)
	}
	return out, nil
}

// decodeEvent returns the timing and reminder of ve. On error the returned
// meeting carries the start when one could be read.
func decodeEvent(ve *ical.VEvent) (domain.Meeting, error) {
	var m domain.Meeting
	if isAllDay(ve) {
		return m, fmt.Errorf("%w: all-day events are not supported", domain.ErrUnsupportedEvent)
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return m, fmt.Errorf("%w: no usable DTSTART: %w", domain.ErrUnsupportedEvent, err)
	}
	m.Start = start.Local()
	if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
		return m, fmt.Errorf("%w: recurring events are not supported", domain.ErrUnsupportedEvent)
	}

	switch {
	case ve.GetProperty(ical.ComponentPropertyDtEnd) != nil:
		end, err := ve.GetEndAt()
		if err != nil {
			return m, fmt.Errorf("%w: no usable DTEND: %w", domain.ErrUnsupportedEvent, err)
		}
		m.End = end.Local()
	case ve.GetProperty(ical.ComponentPropertyDuration) != nil:
		d, err := parseDuration(ve.GetProperty(ical.ComponentPropertyDuration).Value)
		if err != nil {
			return m, fmt.Errorf("%w: invalid DURATION: %w", domain.ErrUnsupportedEvent, err)
		}
		m.End = m.Start.Add(d)
	default:
		return m, fmt.Errorf("%w: neither DTEND nor DURATION is set", domain.ErrUnsupportedEvent)
	}

	for _, alarm := range ve.Alarms() {
		trig := alarm.GetProperty(ical.ComponentPropertyTrigger)
		if trig == nil {
			continue
		}
		if offset, err := parseTrigger(trig.Value); err == nil && offset > 0 {
			m.ReminderOffset = &offset
			break
		}
	}
	return m, nil
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// formatTrigger renders an offset before start as an RFC 5545 duration, e.g. -PT10M.
func formatTrigger(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes <= 0 {
		return "PT0M"
	}
	return fmt.Sprintf("-PT%dM", minutes)
}

// parseTrigger accepts the negative relative durations clients emit for
// "before start" alarms (-PT15M, -PT1H30M, -P1D, -P1W) and returns the
// positive offset.
func parseTrigger(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "-") {
		return 0, errors.New("not a before-start trigger")
	}
	d, err := parseDuration(v)
	if err != nil {
		return 0, err
	}
	return -d, nil
}

// parseDuration reads an RFC 5545 duration value such as PT30M, +P1D or
// -PT1H30M. Years and months are not valid in that grammar.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(strings.ToUpper(v))
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(v, "-"):
		sign = -1
		v = v[1:]
	case strings.HasPrefix(v, "+"):
		v = v[1:]
	}
	if !strings.HasPrefix(v, "P") || len(v) == 1 {
		return 0, fmt.Errorf("malformed duration %q", v)
	}
	v = v[1:]

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'T':
			inTime = true
		default:
			if num == "" {
				return 0, fmt.Errorf("malformed duration %q", v)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, err
			}
			num = ""
			unit, err := durationUnit(r, inTime)
			if err != nil {
				return 0, err
			}
			total += time.Duration(n) * unit
		}
	}
	if num != "" {
		return 0, fmt.Errorf("malformed duration %q", v)
	}
	return sign * total, nil
}

func durationUnit(r rune, inTime bool) (time.Duration, error) {
	switch {
	case r == 'W' && !inTime:
		return 7 * 24 * time.Hour, nil
	case r == 'D' && !inTime:
		return 24 * time.Hour, nil
	case r == 'H' && inTime:
		return time.Hour, nil
	case r == 'M' && inTime:
		return time.Minute, nil
	case r == 'S' && inTime:
		return time.Second, nil
	}
	return 0, fmt.Errorf("unexpected unit %q", r)
}
