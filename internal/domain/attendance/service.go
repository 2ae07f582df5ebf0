package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for the check-in/check-out
// evaluation engine.
type AttendanceService interface {
	// CheckIn records the day's check-in, runs fraud and policy
	// evaluation, and dispatches notifications
	CheckIn(ctx context.Context, req CheckInRequest) (CheckActionResult, error)

	// CheckOut closes the day's record with the same evaluation layered
	// on top of a same-day comparison against the check-in leg
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckActionResult, error)

	// PreCheckFraud runs the fraud evaluation without mutating state,
	// so a client can warn the user before they commit
	PreCheckFraud(ctx context.Context, req PreCheckRequest) (FraudVerdict, error)

	// GetToday retrieves the authenticated user's record for today, or
	// nil when they have not checked in yet
	GetToday(ctx context.Context) (*AttendanceResponse, error)

	// GetMyHistory retrieves the authenticated user's records with
	// date-range filter and pagination
	GetMyHistory(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)

	// MarkAbsentees creates absent records for active employees with no
	// record on the given (already finished) day. Returns the count.
	MarkAbsentees(ctx context.Context, day time.Time) (int, error)
}
