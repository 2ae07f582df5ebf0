package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in/check-out ordering errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidPreCheckType = errors.New("pre-check type must be check-in or check-out")
)
