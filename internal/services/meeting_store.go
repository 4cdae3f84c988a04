package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetingplanner/internal/domain"
)

// StoreOption configures a meeting store.
type StoreOption func(*meetingStore)

// WithClock replaces time.Now. Every operation samples the clock once.
func WithClock(now func() time.Time) StoreOption {
	return func(s *meetingStore) { s.now = now }
}

// WithLocation sets the location whose calendar days GetMeetingsForDay compares.
func WithLocation(loc *time.Location) StoreOption {
	return func(s *meetingStore) { s.loc = loc }
}

// WithIDGenerator replaces the UUID generator used for new meetings.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *meetingStore) { s.newID = gen }
}

// meetingStore is safe for concurrent use. Meetings are stored by value and
// copied in and out, so callers never share memory with the collection.
type meetingStore struct {
	mu       sync.RWMutex
	meetings map[string]domain.Meeting

	now   func() time.Time
	loc   *time.Location
	newID func() string
}

// NewMeetingStore returns an empty in-memory MeetingStore.
func NewMeetingStore(opts ...StoreOption) domain.MeetingStore {
	s := &meetingStore{
		meetings: make(map[string]domain.Meeting),
		now:      time.Now,
		loc:      time.Local,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *meetingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

func (s *meetingStore) Get(id string) (domain.Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, false
	}
	return m.Clone(), true
}

func (s *meetingStore) GetMeetingsForDay(date time.Time) []domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	y, mo, d := date.In(s.loc).Date()
	result := make([]domain.Meeting, 0)
	for _, m := range s.meetings {
		my, mmo, md := m.Start.In(s.loc).Date()
		if my == y && mmo == mo && md == d {
			result = append(result, m.Clone())
		}
	}
	sortByStart(result)
	return result
}

func (s *meetingStore) AddMeeting(ctx context.Context, m domain.Meeting) (domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return domain.Meeting{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(m, "", s.now()); err != nil {
		return domain.Meeting{}, err
	}
	if m.ID != "" {
		if existing, ok := s.meetings[m.ID]; ok {
			return domain.Meeting{}, &domain.ConflictError{Existing: existing.Clone(), Reason: fmt.Sprintf("id %s already exists", m.ID)}
		}
	}

	stored := m.Clone()
	if stored.ID == "" {
		stored.ID = s.newID()
	}
	s.meetings[stored.ID] = stored
	return stored.Clone(), nil
}

// UpdateMeeting builds a candidate from the stored fields, lets mutate edit
// the candidate only, and commits it when it passes the same validation as
// AddMeeting. A rejected candidate is discarded; the stored meeting is never
// touched on the failure path.
func (s *meetingStore) UpdateMeeting(ctx context.Context, id string, mutate domain.MeetingMutation) (domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return domain.Meeting{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	fields := original.Fields()
	if mutate != nil {
		mutate(&fields)
	}
	candidate := original.WithFields(fields)

	if err := s.validate(candidate, id, s.now()); err != nil {
		return domain.Meeting{}, err
	}

	s.meetings[id] = candidate
	return candidate.Clone(), nil
}

func (s *meetingStore) DeleteMeeting(ctx context.Context, id string) bool {
	if ctx.Err() != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return false
	}
	delete(s.meetings, id)
	return true
}

func (s *meetingStore) GetUpcomingReminders() []domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	result := make([]domain.Meeting, 0)
	for _, m := range s.meetings {
		if isReminderDue(m, now) {
			result = append(result, m.Clone())
		}
	}
	sortByStart(result)
	return result
}

func (s *meetingStore) RemoveReminder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return false
	}
	m.ReminderOffset = nil
	s.meetings[id] = m
	return true
}

func (s *meetingStore) AcknowledgeReminder(id string, due time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return false
	}
	current, ok := m.ReminderTime()
	if !ok || !current.Equal(due) {
		return false
	}
	m.ReminderOffset = nil
	s.meetings[id] = m
	return true
}

// validate applies the insertion rules to m, ignoring the stored meeting
// with ID skipID. Callers must hold s.mu.
func (s *meetingStore) validate(m domain.Meeting, skipID string, now time.Time) error {
	if !m.Start.After(now) {
		return fmt.Errorf("%w: start %s is not in the future", domain.ErrInvalidTiming, m.Start.Format(domain.DateTimeLayout))
	}
	if !m.End.After(m.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", domain.ErrInvalidTiming,
			m.End.Format(domain.DateTimeLayout), m.Start.Format(domain.DateTimeLayout))
	}
	if m.ReminderOffset != nil && *m.ReminderOffset < 0 {
		return fmt.Errorf("%w: reminder offset %s is negative", domain.ErrInvalidTiming, *m.ReminderOffset)
	}

	for id, existing := range s.meetings {
		if id == skipID {
			continue
		}
		if existing.Overlaps(m) {
			return &domain.ConflictError{Existing: existing.Clone()}
		}
	}
	return nil
}

func isReminderDue(m domain.Meeting, now time.Time) bool {
	at, ok := m.ReminderTime()
	if !ok {
		return false
	}
	return !at.After(now) && m.Start.After(now)
}

// sortByStart orders meetings by start time, then ID for a stable result.
func sortByStart(ms []domain.Meeting) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Start.Equal(ms[j].Start) {
			return ms[i].ID < ms[j].ID
		}
		return ms[i].Start.Before(ms[j].Start)
	})
}
