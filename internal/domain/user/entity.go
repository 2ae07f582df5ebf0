package user

import (
	"time"
)

// Role represents a user role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type User struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	IsActive bool

	// Per-user policy overrides ("HH:mm"); when nil the tenant
	// defaults from settings apply.
	CustomCheckInTime  *string
	CustomCheckOutTime *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
