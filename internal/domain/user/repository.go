package user

import (
	"context"
)

// UserRepository is the directory contract the attendance core consumes.
// User CRUD itself is owned by a separate collaborator.
type UserRepository interface {
	// GetByID retrieves a user, including policy overrides
	GetByID(ctx context.Context, id string) (User, error)

	// ListActiveAdmins retrieves all active admin accounts, used for
	// notification fan-out
	ListActiveAdmins(ctx context.Context) ([]User, error)

	// ListActiveEmployees retrieves all active non-admin accounts, used
	// by the mark-absent job
	ListActiveEmployees(ctx context.Context) ([]User, error)
}
