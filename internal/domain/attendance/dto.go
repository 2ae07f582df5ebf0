package attendance

import (
	"time"

	"github.com/attendly/attendance-backend-go/internal/pkg/device"
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	FraudReason *string `json:"fraud_reason,omitempty"`

	// Filled by the handler from the raw request, never from the body.
	Device    device.Descriptor `json:"-"`
	IPAddress string            `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FraudReason != nil && validator.IsEmpty(*r.FraudReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "fraud_reason",
			Message: "fraud_reason must not be blank when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	FraudReason *string `json:"fraud_reason,omitempty"`

	Device    device.Descriptor `json:"-"`
	IPAddress string            `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FraudReason != nil && validator.IsEmpty(*r.FraudReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "fraud_reason",
			Message: "fraud_reason must not be blank when provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// PreCheckType values for PreCheckRequest
const (
	PreCheckTypeCheckIn  = "check-in"
	PreCheckTypeCheckOut = "check-out"
)

type PreCheckRequest struct {
	Type string `json:"-"`

	Device    device.Descriptor `json:"-"`
	IPAddress string            `json:"-"`
}

func (r *PreCheckRequest) Validate() error {
	if r.Type != PreCheckTypeCheckIn && r.Type != PreCheckTypeCheckOut {
		return ErrInvalidPreCheckType
	}
	return nil
}

type HistoryFilter struct {
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.StartDate != nil && f.EndDate != nil {
		start, okStart := validator.IsValidDate(*f.StartDate)
		end, okEnd := validator.IsValidDate(*f.EndDate)
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type EventResponse struct {
	Time      string            `json:"time"`
	IPAddress string            `json:"ip_address"`
	Device    device.Descriptor `json:"device"`
}

type AttendanceResponse struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	UserName             *string        `json:"user_name,omitempty"`
	Date                 string         `json:"date"`
	CheckIn              *EventResponse `json:"check_in,omitempty"`
	CheckOut             *EventResponse `json:"check_out,omitempty"`
	WorkedHours          *float64       `json:"worked_hours,omitempty"`
	Status               string         `json:"status"`
	HasDeviceAlert       bool           `json:"has_device_alert"`
	HasIPAlert           bool           `json:"has_ip_alert"`
	AlertMessage         *string        `json:"alert_message,omitempty"`
	HasTimeAlert         bool           `json:"has_time_alert"`
	TimeAlertMessage     *string        `json:"time_alert_message,omitempty"`
	CheckInLateMinutes   *int           `json:"check_in_late_minutes,omitempty"`
	CheckOutEarlyMinutes *int           `json:"check_out_early_minutes,omitempty"`
	FraudReason          *string        `json:"fraud_reason,omitempty"`
	CreatedAt            string         `json:"created_at"`
	UpdatedAt            string         `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// TimeAlertPayload is the time-alert leg of an AlertPayload.
type TimeAlertPayload struct {
	CheckInLateMinutes   *int   `json:"check_in_late_minutes,omitempty"`
	CheckOutEarlyMinutes *int   `json:"check_out_early_minutes,omitempty"`
	Message              string `json:"message"`
}

// AlertPayload is attached to a successful check-in/check-out response
// when any device, IP or time flag fired.
type AlertPayload struct {
	HasDeviceAlert bool              `json:"has_device_alert"`
	HasIPAlert     bool              `json:"has_ip_alert"`
	HasTimeAlert   bool              `json:"has_time_alert"`
	Message        string            `json:"message"`
	TimeAlert      *TimeAlertPayload `json:"time_alert,omitempty"`
}

// FraudPayload is attached when the fraud verdict fired.
type FraudPayload struct {
	Detected       bool          `json:"detected"`
	HasDeviceAlert bool          `json:"has_device_alert"`
	HasIPAlert     bool          `json:"has_ip_alert"`
	Message        string        `json:"message"`
	Alerts         []AlertDetail `json:"alerts,omitempty"`
}

// CheckActionResult is what CheckIn/CheckOut hand back to the handler.
type CheckActionResult struct {
	Attendance AttendanceResponse
	Alert      *AlertPayload
	Fraud      *FraudPayload
}

// NewEventResponse maps an Event to its response shape.
func NewEventResponse(e *Event) *EventResponse {
	if e == nil {
		return nil
	}
	return &EventResponse{
		Time:      e.Time.Format(time.RFC3339),
		IPAddress: e.IPAddress,
		Device:    e.Device,
	}
}
