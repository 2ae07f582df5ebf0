package user

import "errors"

// User domain errors
var (
	ErrUserNotFound = errors.New("user not found")
)
