package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

// AttendanceJobs marks employees without a record absent once the day
// has rolled over.
type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	now           func() time.Time
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees backfills absent records for yesterday. The job
// ticks hourly but only acts in the first hour after midnight.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now()
	if now.Hour() != 0 {
		return nil
	}

	yesterday := now.AddDate(0, 0, -1)

	marked, err := j.attendanceSvc.MarkAbsentees(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absentees: %w", err)
	}

	if marked > 0 {
		slog.Info("marked absent employees", "date", yesterday.Format("2006-01-02"), "count", marked)
	}

	return nil
}
