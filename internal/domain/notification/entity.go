package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeCheckIn  NotificationType = "check-in"
	TypeCheckOut NotificationType = "check-out"
	TypeAlert    NotificationType = "alert"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case TypeCheckIn, TypeCheckOut, TypeAlert:
		return true
	}
	return false
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string

	// Metadata: attendance id, ip, device, timestamp, time-alert fields.
	Data map[string]interface{}

	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}
