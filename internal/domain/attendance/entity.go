package attendance

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/device"
)

// Attendance status values. Checkout never auto-completes a record;
// the pending -> completed/rejected transition belongs to admin review.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusAbsent    = "absent"
)

// Event is one check-in or check-out leg of a day's record.
type Event struct {
	Time      time.Time
	IPAddress string
	Device    device.Descriptor
}

// Attendance is the one-per-(user, day) record. Date is normalized to
// local midnight; the (UserID, Date) pair is unique in the store.
type Attendance struct {
	ID       string
	UserID   string
	Date     time.Time
	CheckIn  *Event
	CheckOut *Event

	WorkedHours *float64
	Status      string

	HasDeviceAlert bool
	HasIPAlert     bool
	Alerts         []AlertDetail
	AlertMessage   *string

	HasTimeAlert         bool
	TimeAlertMessage     *string
	CheckInLateMinutes   *int
	CheckOutEarlyMinutes *int

	// Operator-supplied justification stored when fraud was flagged.
	FraudReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName  *string
	UserEmail *string
}
