package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
)

// UserStorage implements storage.UserStore over SQLite
type UserStorage struct {
	db *sql.DB
}

// CreateUser creates a new user in the storage
func (s *UserStorage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, last_synced, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.LastSynced.UnixMilli(),
		user.CreatedAt.UnixMilli(),
	)

	if err != nil {
		// duplicate email
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves user by ID
func (s *UserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, "id", userID)
}

func (s *UserStorage) getUser(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, last_synced, created_at
		FROM users
		WHERE %s = ?
	`, column)

	user := &models.User{}
	var lastSynced, createdAt int64

	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&lastSynced,
		&createdAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.LastSynced = time.UnixMilli(lastSynced)
	user.CreatedAt = time.UnixMilli(createdAt)

	return user, nil
}

// UpdateProfile updates name and/or email, skipping empty fields
func (s *UserStorage) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = CASE WHEN ? != '' THEN ? ELSE name END,
		    email = CASE WHEN ? != '' THEN ? ELSE email END
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, name, name, email, email, userID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return nil, storage.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, storage.ErrUserNotFound
	}

	return s.GetUserByID(ctx, userID)
}

// UpdateLastSynced advances the user's sync watermark.
// The watermark never moves backwards.
func (s *UserStorage) UpdateLastSynced(ctx context.Context, userID string, t time.Time) error {
	query := `
		UPDATE users
		SET last_synced = MAX(last_synced, ?)
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query, t.UnixMilli(), userID)
	if err != nil {
		return fmt.Errorf("failed to update last_synced: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}
