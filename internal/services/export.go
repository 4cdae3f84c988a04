package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"meetingplanner/internal/domain"
)

type exportService struct {
	store      domain.MeetingStore
	formatters map[domain.ExportFormat]domain.ScheduleFormatter
	logger     *slog.Logger
}

// NewExportService returns an ExportService rendering store snapshots with the given formatters.
func NewExportService(store domain.MeetingStore, formatters map[domain.ExportFormat]domain.ScheduleFormatter, logger *slog.Logger) domain.ExportService {
	return &exportService{store: store, formatters: formatters, logger: logger}
}

func (s *exportService) Formatter(format domain.ExportFormat) (domain.ScheduleFormatter, bool) {
	f, ok := s.formatters[format]
	return f, ok
}

// ExportDaySchedule takes the day snapshot first; rendering and writing happen
// after the store lock is released.
func (s *exportService) ExportDaySchedule(ctx context.Context, date time.Time, format domain.ExportFormat, dst io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	formatter, ok := s.formatters[format]
	if !ok {
		return fmt.Errorf("%w: unknown format %q", domain.ErrExportFailed, format)
	}

	meetings := s.store.GetMeetingsForDay(date)

	bw := bufio.NewWriter(dst)
	if err := formatter.Format(bw, date, meetings); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}

	s.logger.InfoContext(ctx, "day schedule exported",
		"date", date.Format(domain.DateLayout),
		"format", string(format),
		"meetings", len(meetings),
	)
	return nil
}

// ExportDayScheduleToFile writes via a temp file in the target directory and
// renames it over path, so a failed export never leaves a truncated file.
func (s *exportService) ExportDayScheduleToFile(ctx context.Context, date time.Time, format domain.ExportFormat, path string) error {
	if path == "" {
		return fmt.Errorf("%w: export path is empty", domain.ErrExportFailed)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".meetings-export-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := s.ExportDaySchedule(ctx, date, format, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	return nil
}
