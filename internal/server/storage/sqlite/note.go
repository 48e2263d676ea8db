package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
)

const noteColumns = "id, user_id, local_id, title, content, is_deleted, created_at, updated_at"

// NoteStorage implements storage.NoteStore over SQLite
type NoteStorage struct {
	db *sql.DB
}

// Insert stores a new note
func (s *NoteStorage) Insert(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.OwnerID,
		note.LocalID,
		note.Title,
		note.Content,
		boolToInt(note.IsDeleted),
		note.CreatedAt.UnixMilli(),
		note.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// Update overwrites the stored row for note.ID
func (s *NoteStorage) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes
		SET title = ?, content = ?, is_deleted = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		boolToInt(note.IsDeleted),
		note.UpdatedAt.UnixMilli(),
		note.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// GetOwned retrieves a non-tombstoned note owned by ownerID
func (s *NoteStorage) GetOwned(ctx context.Context, ownerID, id string) (*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE id = ? AND user_id = ? AND is_deleted = 0
	`
	return s.getNote(ctx, query, id, ownerID)
}

// GetOwnedAny retrieves a note owned by ownerID including tombstoned ones.
// The sync path uses this: a delta may target a record the server has
// already tombstoned.
func (s *NoteStorage) GetOwnedAny(ctx context.Context, ownerID, id string) (*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE id = ? AND user_id = ?
	`
	return s.getNote(ctx, query, id, ownerID)
}

func (s *NoteStorage) getNote(ctx context.Context, query string, args ...any) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, query, args...)

	note, err := scanNote(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListByOwner retrieves all non-tombstoned notes of a user, newest first
func (s *NoteStorage) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = ? AND is_deleted = 0
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// SoftDelete marks an owned note as deleted and refreshes updated_at.
// Tombstoning an already tombstoned note is a no-op in effect; only
// updated_at re-advances.
func (s *NoteStorage) SoftDelete(ctx context.Context, ownerID, id string, now time.Time) error {
	query := `
		UPDATE notes
		SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query, now.UnixMilli(), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to soft delete note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// UpdatedSince retrieves all notes of a user, tombstoned included,
// with updated_at strictly greater than since
func (s *NoteStorage) UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = ? AND updated_at > ?
		ORDER BY updated_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query notes since timestamp: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// scanNote reads one note row via the given scan function
func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	note := &models.Note{}
	var deleted int
	var createdAt, updatedAt int64

	err := scan(
		&note.ID,
		&note.OwnerID,
		&note.LocalID,
		&note.Title,
		&note.Content,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.IsDeleted = intToBool(deleted)
	note.CreatedAt = time.UnixMilli(createdAt)
	note.UpdatedAt = time.UnixMilli(updatedAt)

	return note, nil
}

func scanNotes(rows *sql.Rows) ([]*models.Note, error) {
	var notes []*models.Note

	for rows.Next() {
		note, err := scanNote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notes, nil
}
