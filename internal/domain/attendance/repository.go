package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
type AttendanceRepository interface {
	// CreateForDay inserts the record for its (user, day) pair. The
	// insert is atomic against the unique (user_id, date) constraint:
	// when two concurrent check-ins race, exactly one create succeeds
	// and the loser gets ErrAlreadyCheckedIn.
	CreateForDay(ctx context.Context, att Attendance) (Attendance, error)

	// GetByUserAndDay retrieves the record for a user on a given day,
	// or nil when none exists
	GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*Attendance, error)

	// Update replaces the mutable fields of an existing record
	Update(ctx context.Context, att Attendance) error

	// FindPriorRecords returns up to limit records for dates strictly
	// before beforeDay, ordered by date descending then creation time
	// descending. Records with neither leg set are skipped.
	FindPriorRecords(ctx context.Context, userID string, beforeDay time.Time, limit int) ([]Attendance, error)

	// ListByUser retrieves a user's records with date-range filter and
	// pagination, newest first
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListUserIDsWithRecordOn returns the IDs of users that have any
	// record on the given day. Used by the mark-absent job.
	ListUserIDsWithRecordOn(ctx context.Context, day time.Time) ([]string, error)
}
