package storage

import (
	"context"
	"time"

	"github.com/iudanet/syncpad/internal/models"
)

// UserStore defines interface for user persistence
type UserStore interface {
	// CreateUser creates a new user in the storage
	// Returns ErrEmailTaken if the email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile updates name and/or email, skipping empty fields
	// Returns the updated user
	UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error)

	// UpdateLastSynced advances the user's sync watermark.
	// The watermark is monotonically non-decreasing: a value older than
	// the stored one is ignored.
	UpdateLastSynced(ctx context.Context, userID string, t time.Time) error
}
