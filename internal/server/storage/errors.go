package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that a record is absent or not owned by the
	// requesting user. The two cases are deliberately indistinguishable
	// so that existence of foreign records is not leaked.
	ErrNotFound = errors.New("not found or not owned")

	// ErrUserNotFound indicates that a user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already exists")
)
