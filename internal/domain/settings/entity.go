package settings

import (
	"time"
)

// Settings is the tenant-wide singleton: default working hours and the
// optional IP whitelist for check-in/check-out. Read-only from the
// attendance core's perspective.
type Settings struct {
	ID                  string
	DefaultCheckInTime  *string // "HH:mm"
	DefaultCheckOutTime *string // "HH:mm"
	AllowedIPs          []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
