package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"meetingplanner/internal/domain"
)

type importService struct {
	store   domain.MeetingStore
	decoder domain.CalendarDecoder
	logger  *slog.Logger
}

// NewImportService returns an ImportService that feeds decoded meetings through AddMeeting.
func NewImportService(store domain.MeetingStore, decoder domain.CalendarDecoder, logger *slog.Logger) domain.ImportService {
	return &importService{store: store, decoder: decoder, logger: logger}
}

// ImportICS adds every decoded meeting independently. A rejected meeting or
// a calendar entry the decoder skipped is recorded in the result and does not
// stop the import.
func (s *importService) ImportICS(ctx context.Context, r io.Reader) (domain.ImportResult, error) {
	result := domain.ImportResult{Failed: make(map[string]error)}

	decoded, err := s.decoder.DecodeMeetings(r)
	if err != nil {
		return result, fmt.Errorf("decode calendar: %w", err)
	}

	for _, ev := range decoded.Skipped {
		result.Failed[failureKey(result.Failed, ev.Title, ev.Start)] = ev.Reason
		s.logger.WarnContext(ctx, "calendar event skipped", "title", ev.Title, "err", ev.Reason)
	}

	for _, m := range decoded.Meetings {
		stored, err := s.store.AddMeeting(ctx, m)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed[failureKey(result.Failed, m.Title, m.Start)] = err
			s.logger.WarnContext(ctx, "calendar event rejected", "title", m.Title, "err", err)
			continue
		}
		result.Imported = append(result.Imported, stored)
	}

	s.logger.InfoContext(ctx, "calendar imported", "imported", len(result.Imported), "rejected", len(result.Failed))
	return result, nil
}

// failureKey returns an unused key for a failed event: its title, then
// "title @ start", then either of those with a " (n)" suffix.
func failureKey(failed map[string]error, title string, start time.Time) string {
	key := title
	if _, taken := failed[key]; (taken || key == "") && !start.IsZero() {
		key = fmt.Sprintf("%s @ %s", title, start.Format(domain.DateTimeLayout))
	}
	base := key
	for n := 2; ; n++ {
		if _, taken := failed[key]; !taken {
			return key
		}
		key = fmt.Sprintf("%s (%d)", base, n)
	}
}
