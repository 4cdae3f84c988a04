package controllers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meetingplanner/internal/delivery/http/helpers"
	"meetingplanner/internal/domain"
)

// maxImportBytes caps the size of an uploaded calendar.
const maxImportBytes = 4 << 20

// CreateMeetingRequest is the request body for POST /meetings.
// Timestamps are "YYYY-MM-DD HH:MM" in server local time or RFC 3339.
type CreateMeetingRequest struct {
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	ReminderMinutes *int   `json:"reminder_minutes,omitempty"`
}

// Validate implements Validator.
func (c CreateMeetingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Start == "" {
		errs = append(errs, "start is required")
	}
	if c.End == "" {
		errs = append(errs, "end is required")
	}
	if c.ReminderMinutes != nil && *c.ReminderMinutes < 0 {
		errs = append(errs, "reminder_minutes must not be negative")
	}
	return errs
}

// UpdateMeetingRequest is the request body for PATCH /meetings/{meetingID}.
// Omitted fields are unchanged. clear_reminder removes the reminder.
type UpdateMeetingRequest struct {
	Title           *string `json:"title,omitempty"`
	Start           *string `json:"start,omitempty"`
	End             *string `json:"end,omitempty"`
	ReminderMinutes *int    `json:"reminder_minutes,omitempty"`
	ClearReminder   bool    `json:"clear_reminder,omitempty"`
}

// Validate implements Validator.
func (u UpdateMeetingRequest) Validate() []string {
	var errs []string
	if u.Title == nil && u.Start == nil && u.End == nil && u.ReminderMinutes == nil && !u.ClearReminder {
		errs = append(errs, "at least one field is required")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.ReminderMinutes != nil && *u.ReminderMinutes < 0 {
		errs = append(errs, "reminder_minutes must not be negative")
	}
	if u.ReminderMinutes != nil && u.ClearReminder {
		errs = append(errs, "reminder_minutes and clear_reminder are mutually exclusive")
	}
	return errs
}

// MeetingResponse is the JSON form of a stored meeting.
type MeetingResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	ReminderMinutes *int       `json:"reminder_minutes"`
	ReminderTime    *time.Time `json:"reminder_time"`
}

func toMeetingResponse(m domain.Meeting) MeetingResponse {
	resp := MeetingResponse{ID: m.ID, Title: m.Title, Start: m.Start, End: m.End}
	if m.ReminderOffset != nil {
		minutes := int(*m.ReminderOffset / time.Minute)
		resp.ReminderMinutes = &minutes
	}
	if at, ok := m.ReminderTime(); ok {
		resp.ReminderTime = &at
	}
	return resp
}

func toMeetingResponses(ms []domain.Meeting) []MeetingResponse {
	out := make([]MeetingResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMeetingResponse(m))
	}
	return out
}

// MeetingSuccessResponse is the success envelope for single-meeting endpoints.
type MeetingSuccessResponse struct {
	Data  MeetingResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// MeetingListSuccessResponse is the success envelope for meeting list endpoints.
type MeetingListSuccessResponse struct {
	Data  []MeetingResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ImportResponse reports the meetings added by a calendar import and the
// rejected events keyed by title.
type ImportResponse struct {
	Imported []MeetingResponse `json:"imported"`
	Failed   map[string]string `json:"failed"`
}

// ImportSuccessResponse is the success envelope for POST /meetings/import.
type ImportSuccessResponse struct {
	Data  ImportResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type MeetingController struct {
	Logger   *slog.Logger
	Store    domain.MeetingStore
	Export   domain.ExportService
	Import   domain.ImportService
	Location *time.Location
	Now      func() time.Time
}

func NewMeetingController(logger *slog.Logger, store domain.MeetingStore, export domain.ExportService, imp domain.ImportService, loc *time.Location) *MeetingController {
	if loc == nil {
		loc = time.Local
	}
	return &MeetingController{
		Logger:   logger,
		Store:    store,
		Export:   export,
		Import:   imp,
		Location: loc,
		Now:      time.Now,
	}
}

// ListMeetings godoc
// @Summary List the meetings of a day
// @Description Returns the meetings starting on the given calendar day, ordered by start. Defaults to today.
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day as YYYY-MM-DD"
// @Success 200 {object} controllers.MeetingListSuccessResponse "data contains the day's meetings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /meetings [get]
func (c *MeetingController) ListMeetings(w http.ResponseWriter, r *http.Request) {
	day, err := helpers.ParseDate(r, "date", c.Location, c.Now())
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toMeetingResponses(c.Store.GetMeetingsForDay(day)))
}

// GetMeeting godoc
// @Summary Get a meeting by ID
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param meetingID path string true "Meeting ID"
// @Success 200 {object} controllers.MeetingSuccessResponse "data contains the meeting"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetings/{meetingID} [get]
func (c *MeetingController) GetMeeting(w http.ResponseWriter, r *http.Request) {
	m, ok := c.Store.Get(r.PathValue("meetingID"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, domain.ErrNotFound.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toMeetingResponse(m))
}

// CreateMeeting godoc
// @Summary Schedule a meeting
// @Description Adds a meeting. The start must be in the future, the end after the start, and the interval must not overlap another meeting.
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMeetingRequest true "Meeting data"
// @Success 201 {object} controllers.MeetingSuccessResponse "data contains the stored meeting"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_timing"
// @Router /meetings [post]
func (c *MeetingController) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	start, err := helpers.ParseDateTime(req.Start, c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start: "+err.Error())
		return
	}
	end, err := helpers.ParseDateTime(req.End, c.Location)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end: "+err.Error())
		return
	}
	reminder := time.Duration(0)
	if req.ReminderMinutes != nil {
		reminder = time.Duration(*req.ReminderMinutes) * time.Minute
	}

	stored, err := c.Store.AddMeeting(r.Context(), domain.NewMeeting(strings.TrimSpace(req.Title), start, end, reminder))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "meeting added", "meeting_id", stored.ID, "title", stored.Title)
	helpers.WriteJSONSuccess(w, http.StatusCreated, toMeetingResponse(stored))
}

// UpdateMeeting godoc
// @Summary Update a meeting
// @Description Applies the given fields atomically. On any validation failure the stored meeting is unchanged.
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meetingID path string true "Meeting ID"
// @Param body body UpdateMeetingRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.MeetingSuccessResponse "data contains the updated meeting"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 422 {object} helpers.APIResponse "error.code: invalid_timing"
// @Router /meetings/{meetingID} [patch]
func (c *MeetingController) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	var req UpdateMeetingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var start, end *time.Time
	if req.Start != nil {
		t, err := helpers.ParseDateTime(*req.Start, c.Location)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start: "+err.Error())
			return
		}
		start = &t
	}
	if req.End != nil {
		t, err := helpers.ParseDateTime(*req.End, c.Location)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end: "+err.Error())
			return
		}
		end = &t
	}

	updated, err := c.Store.UpdateMeeting(r.Context(), r.PathValue("meetingID"), func(f *domain.MeetingFields) {
		if req.Title != nil {
			f.Title = strings.TrimSpace(*req.Title)
		}
		if start != nil {
			f.Start = *start
		}
		if end != nil {
			f.End = *end
		}
		switch {
		case req.ClearReminder:
			f.ReminderOffset = nil
		case req.ReminderMinutes != nil:
			f.SetReminderMinutes(*req.ReminderMinutes)
		}
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "meeting updated", "meeting_id", updated.ID)
	helpers.WriteJSONSuccess(w, http.StatusOK, toMeetingResponse(updated))
}

// DeleteMeeting godoc
// @Summary Delete a meeting
// @Tags meetings
// @Security BearerAuth
// @Param meetingID path string true "Meeting ID"
// @Success 204 "Meeting deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetings/{meetingID} [delete]
func (c *MeetingController) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("meetingID")
	if !c.Store.DeleteMeeting(r.Context(), id) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, domain.ErrNotFound.Error())
		return
	}
	c.Logger.InfoContext(r.Context(), "meeting deleted", "meeting_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ExportMeetings godoc
// @Summary Export a day schedule
// @Description Renders the day's meetings as plain text (one line per meeting) or as an iCalendar document.
// @Tags meetings
// @Produce plain
// @Produce text/calendar
// @Security BearerAuth
// @Param date query string false "Day as YYYY-MM-DD"
// @Param format query string false "text (default) or ics"
// @Success 200 {string} string "the rendered schedule"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: export_failed"
// @Router /meetings/export [get]
func (c *MeetingController) ExportMeetings(w http.ResponseWriter, r *http.Request) {
	day, err := helpers.ParseDate(r, "date", c.Location, c.Now())
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	format := domain.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = domain.ExportFormatText
	}
	formatter, ok := c.Export.Formatter(format)
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	// Render fully before writing so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := c.Export.ExportDaySchedule(r.Context(), day, format, &buf); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	filename := "meetings_" + day.Format(domain.DateLayout) + formatter.FileExtension()
	w.Header().Set("Content-Type", formatter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ImportMeetings godoc
// @Summary Import meetings from an iCalendar document
// @Description Adds every single, timed event of the uploaded calendar. Events that fail validation, and recurring or all-day events, are reported and skipped.
// @Tags meetings
// @Accept text/calendar
// @Produce json
// @Security BearerAuth
// @Param body body string true "iCalendar document"
// @Success 200 {object} controllers.ImportSuccessResponse "data contains imported meetings and rejected events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /meetings/import [post]
func (c *MeetingController) ImportMeetings(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	result, err := c.Import.ImportICS(r.Context(), bytes.NewReader(data))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	resp := ImportResponse{
		Imported: toMeetingResponses(result.Imported),
		Failed:   make(map[string]string, len(result.Failed)),
	}
	for title, ferr := range result.Failed {
		resp.Failed[title] = ferr.Error()
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// ListReminders godoc
// @Summary List due reminders
// @Description Returns meetings whose reminder time has passed and which have not started yet. Reading does not consume reminders.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeetingListSuccessResponse "data contains meetings with a due reminder"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /reminders [get]
func (c *MeetingController) ListReminders(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, toMeetingResponses(c.Store.GetUpcomingReminders()))
}

// RemoveReminder godoc
// @Summary Clear a meeting's reminder
// @Tags reminders
// @Security BearerAuth
// @Param meetingID path string true "Meeting ID"
// @Success 204 "Reminder cleared"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /meetings/{meetingID}/reminder [delete]
func (c *MeetingController) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	if !c.Store.RemoveReminder(r.PathValue("meetingID")) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, domain.ErrNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
