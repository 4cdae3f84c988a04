package helpers

import (
	"fmt"
	"net/http"
	"time"

	"meetingplanner/internal/domain"
)

// ParseDate reads a YYYY-MM-DD query parameter as midnight in loc.
// A missing parameter yields the current day.
func ParseDate(r *http.Request, name string, loc *time.Location, now time.Time) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	day, err := time.ParseInLocation(domain.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", name)
	}
	return day, nil
}

// ParseDateTime parses a "YYYY-MM-DD HH:MM" or RFC 3339 timestamp. The short
// form is interpreted in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD HH:MM nor RFC 3339", s)
}
