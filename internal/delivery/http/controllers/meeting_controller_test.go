package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetingplanner/internal/adapters/calendar"
	"meetingplanner/internal/delivery/http/helpers"
	"meetingplanner/internal/domain"
	"meetingplanner/internal/services"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

type fakeImportService struct {
	result domain.ImportResult
	err    error
	body   string
}

func (f *fakeImportService) ImportICS(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	data, _ := io.ReadAll(r)
	f.body = string(data)
	return f.result, f.err
}

// failingExport keeps the real formatters but fails every export.
type failingExport struct{ domain.ExportService }

func (failingExport) ExportDaySchedule(context.Context, time.Time, domain.ExportFormat, io.Writer) error {
	return fmt.Errorf("%w: disk full", domain.ErrExportFailed)
}

func newTestController(t *testing.T) (*MeetingController, domain.MeetingStore, *fakeImportService) {
	t.Helper()
	store := services.NewMeetingStore(
		services.WithClock(func() time.Time { return testNow }),
		services.WithLocation(time.UTC),
	)
	export := services.NewExportService(store, map[domain.ExportFormat]domain.ScheduleFormatter{
		domain.ExportFormatText: calendar.NewTextFormatter(time.UTC),
		domain.ExportFormatICS:  &calendar.ICSFormatter{Now: func() time.Time { return testNow }},
	}, testLogger)
	imp := &fakeImportService{}
	c := NewMeetingController(testLogger, store, export, imp, time.UTC)
	c.Now = func() time.Time { return testNow }
	return c, store, imp
}

func decodeEnvelope(t *testing.T, body io.Reader, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

func addMeeting(t *testing.T, store domain.MeetingStore, title string, start time.Time, dur, reminder time.Duration) domain.Meeting {
	t.Helper()
	m, err := store.AddMeeting(context.Background(), domain.NewMeeting(title, start, start.Add(dur), reminder))
	require.NoError(t, err)
	return m
}

func tomorrow(hour, minute int) time.Time {
	return time.Date(2026, 10, 17, hour, minute, 0, 0, time.UTC)
}

func TestCreateMeeting(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created with reminder",
			body:       `{"title":"Standup","start":"2026-10-17 09:00","end":"2026-10-17 09:15","reminder_minutes":10}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "RFC 3339 timestamps",
			body:       `{"title":"Standup","start":"2026-10-17T09:00:00Z","end":"2026-10-17T09:15:00Z"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"start":"2026-10-17 09:00","end":"2026-10-17 09:15"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"title":"x","start":"2026-10-17 09:00","end":"2026-10-17 09:15","room":"a"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "malformed start",
			body:       `{"title":"x","start":"tomorrow","end":"2026-10-17 09:15"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "negative reminder",
			body:       `{"title":"x","start":"2026-10-17 09:00","end":"2026-10-17 09:15","reminder_minutes":-5}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "start in the past",
			body:       `{"title":"x","start":"2026-10-15 09:00","end":"2026-10-15 09:15"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeInvalidTiming,
		},
		{
			name:       "end before start",
			body:       `{"title":"x","start":"2026-10-17 10:00","end":"2026-10-17 09:00"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeInvalidTiming,
		},
		{
			name:       "overlaps existing",
			body:       `{"title":"x","start":"2026-10-17 13:30","end":"2026-10-17 14:30"}`,
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store, _ := newTestController(t)
			addMeeting(t, store, "Existing", tomorrow(13, 0), time.Hour, 0)

			req := httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			c.CreateMeeting(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			var got MeetingResponse
			apiErr := decodeEnvelope(t, rr.Body, &got)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				assert.Equal(t, 1, store.Len())
				return
			}
			require.Nil(t, apiErr)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "Standup", got.Title)
			assert.True(t, got.Start.Equal(tomorrow(9, 0)))
			assert.Equal(t, 2, store.Len())
		})
	}
}

func TestCreateMeeting_ReminderFields(t *testing.T) {
	c, _, _ := newTestController(t)
	req := httptest.NewRequest(http.MethodPost, "/meetings",
		strings.NewReader(`{"title":"Standup","start":"2026-10-17 09:00","end":"2026-10-17 09:15","reminder_minutes":10}`))
	rr := httptest.NewRecorder()
	c.CreateMeeting(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var got MeetingResponse
	require.Nil(t, decodeEnvelope(t, rr.Body, &got))
	require.NotNil(t, got.ReminderMinutes)
	assert.Equal(t, 10, *got.ReminderMinutes)
	require.NotNil(t, got.ReminderTime)
	assert.True(t, got.ReminderTime.Equal(tomorrow(8, 50)))
}

func TestListMeetings(t *testing.T) {
	c, store, _ := newTestController(t)
	addMeeting(t, store, "Afternoon", tomorrow(14, 0), time.Hour, 0)
	addMeeting(t, store, "Morning", tomorrow(9, 0), time.Hour, 0)
	addMeeting(t, store, "Late morning", tomorrow(11, 0), time.Hour, 0)

	req := httptest.NewRequest(http.MethodGet, "/meetings?date=2026-10-17", nil)
	rr := httptest.NewRecorder()
	c.ListMeetings(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []MeetingResponse
	require.Nil(t, decodeEnvelope(t, rr.Body, &got))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Morning", "Late morning", "Afternoon"}, []string{got[0].Title, got[1].Title, got[2].Title})
	assert.Nil(t, got[0].ReminderMinutes)

	rr = httptest.NewRecorder()
	c.ListMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, decodeEnvelope(t, rr.Body, &got))
	assert.Empty(t, got, "defaults to today")

	rr = httptest.NewRecorder()
	c.ListMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings?date=17/10/2026", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMeeting(t *testing.T) {
	c, store, _ := newTestController(t)
	m := addMeeting(t, store, "Standup", tomorrow(9, 0), 15*time.Minute, 0)

	req := httptest.NewRequest(http.MethodGet, "/meetings/"+m.ID, nil)
	req.SetPathValue("meetingID", m.ID)
	rr := httptest.NewRecorder()
	c.GetMeeting(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/meetings/missing", nil)
	req.SetPathValue("meetingID", "missing")
	rr = httptest.NewRecorder()
	c.GetMeeting(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeEnvelope(t, rr.Body, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}

func TestUpdateMeeting(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
		wantCode   string
		check      func(t *testing.T, m domain.Meeting)
	}{
		{
			name:       "move and rename",
			body:       `{"title":"Daily","start":"2026-10-17 09:15","end":"2026-10-17 09:30"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m domain.Meeting) {
				assert.Equal(t, "Daily", m.Title)
				assert.True(t, m.Start.Equal(tomorrow(9, 15)))
				require.NotNil(t, m.ReminderOffset)
			},
		},
		{
			name:       "clear reminder",
			body:       `{"clear_reminder":true}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m domain.Meeting) {
				assert.Nil(t, m.ReminderOffset)
			},
		},
		{
			name:       "change reminder",
			body:       `{"reminder_minutes":30}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, m domain.Meeting) {
				require.NotNil(t, m.ReminderOffset)
				assert.Equal(t, 30*time.Minute, *m.ReminderOffset)
			},
		},
		{
			name:       "empty body",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "reminder and clear together",
			body:       `{"reminder_minutes":5,"clear_reminder":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "conflict leaves meeting unchanged",
			body:       `{"title":"Moved","start":"2026-10-17 13:30","end":"2026-10-17 14:30"}`,
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
		{
			name:       "end before start leaves meeting unchanged",
			body:       `{"end":"2026-10-17 08:00"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeInvalidTiming,
		},
		{
			name:       "unknown id",
			id:         "missing",
			body:       `{"title":"x"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store, _ := newTestController(t)
			m := addMeeting(t, store, "Standup", tomorrow(9, 0), 15*time.Minute, 10*time.Minute)
			addMeeting(t, store, "Other", tomorrow(14, 0), time.Hour, 0)
			id := m.ID
			if tt.id != "" {
				id = tt.id
			}

			req := httptest.NewRequest(http.MethodPatch, "/meetings/"+id, strings.NewReader(tt.body))
			req.SetPathValue("meetingID", id)
			rr := httptest.NewRecorder()
			c.UpdateMeeting(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			stored, ok := store.Get(m.ID)
			require.True(t, ok)
			if tt.wantCode != "" {
				apiErr := decodeEnvelope(t, rr.Body, nil)
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				assert.Equal(t, m, stored)
				return
			}
			tt.check(t, stored)
		})
	}
}

func TestDeleteMeeting(t *testing.T) {
	c, store, _ := newTestController(t)
	m := addMeeting(t, store, "Standup", tomorrow(9, 0), 15*time.Minute, 0)

	req := httptest.NewRequest(http.MethodDelete, "/meetings/"+m.ID, nil)
	req.SetPathValue("meetingID", m.ID)
	rr := httptest.NewRecorder()
	c.DeleteMeeting(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, store.Len())

	rr = httptest.NewRecorder()
	c.DeleteMeeting(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportMeetings(t *testing.T) {
	c, store, _ := newTestController(t)
	m := addMeeting(t, store, "Standup", tomorrow(9, 0), 15*time.Minute, 10*time.Minute)

	rr := httptest.NewRecorder()
	c.ExportMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings/export?date=2026-10-17", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="meetings_2026-10-17.txt"`)
	assert.Equal(t, "2026-10-17 09:00-09:15 | Standup | reminder 10m | id "+m.ID+"\n", rr.Body.String())

	rr = httptest.NewRecorder()
	c.ExportMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings/export?date=2026-10-17&format=ics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "UID:"+m.ID)

	rr = httptest.NewRecorder()
	c.ExportMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings/export?format=pdf", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExportMeetings_Failure(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Export = failingExport{ExportService: c.Export}

	rr := httptest.NewRecorder()
	c.ExportMeetings(rr, httptest.NewRequest(http.MethodGet, "/meetings/export", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	apiErr := decodeEnvelope(t, rr.Body, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeExportFailed, apiErr.Code)
}

func TestImportMeetings(t *testing.T) {
	c, _, imp := newTestController(t)
	imp.result = domain.ImportResult{
		Imported: []domain.Meeting{{ID: "m-1", Title: "Planning", Start: tomorrow(13, 0), End: tomorrow(14, 0)}},
		Failed:   map[string]error{"Clash": domain.ErrConflict},
	}

	rr := httptest.NewRecorder()
	c.ImportMeetings(rr, httptest.NewRequest(http.MethodPost, "/meetings/import", bytes.NewBufferString("BEGIN:VCALENDAR")))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "BEGIN:VCALENDAR", imp.body)

	var got ImportResponse
	require.Nil(t, decodeEnvelope(t, rr.Body, &got))
	require.Len(t, got.Imported, 1)
	assert.Equal(t, "m-1", got.Imported[0].ID)
	assert.Equal(t, domain.ErrConflict.Error(), got.Failed["Clash"])

	imp.err = errors.New("parse ics: bad line")
	rr = httptest.NewRecorder()
	c.ImportMeetings(rr, httptest.NewRequest(http.MethodPost, "/meetings/import", bytes.NewBufferString("junk")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReminders(t *testing.T) {
	c, store, _ := newTestController(t)
	due := addMeeting(t, store, "Soon", testNow.Add(5*time.Minute), 15*time.Minute, 10*time.Minute)
	addMeeting(t, store, "Later", tomorrow(9, 0), 15*time.Minute, 10*time.Minute)

	rr := httptest.NewRecorder()
	c.ListReminders(rr, httptest.NewRequest(http.MethodGet, "/reminders", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got []MeetingResponse
	require.Nil(t, decodeEnvelope(t, rr.Body, &got))
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)

	req := httptest.NewRequest(http.MethodDelete, "/meetings/"+due.ID+"/reminder", nil)
	req.SetPathValue("meetingID", due.ID)
	rr = httptest.NewRecorder()
	c.RemoveReminder(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, store.GetUpcomingReminders())

	req = httptest.NewRequest(http.MethodDelete, "/meetings/missing/reminder", nil)
	req.SetPathValue("meetingID", "missing")
	rr = httptest.NewRecorder()
	c.RemoveReminder(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
