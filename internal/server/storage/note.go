package storage

import (
	"context"
	"time"

	"github.com/iudanet/syncpad/internal/models"
)

// NoteStore defines interface for note persistence.
//
// Every lookup is scoped by owner: a note that exists under another owner
// behaves exactly like a missing one (ErrNotFound). Primary operations
// exclude tombstoned rows; the sync path and the change feed see them.
type NoteStore interface {
	// Insert stores a new note
	Insert(ctx context.Context, note *models.Note) error

	// Update overwrites the stored row for note.ID
	// Returns ErrNotFound if the row doesn't exist
	Update(ctx context.Context, note *models.Note) error

	// GetOwned retrieves a non-tombstoned note owned by ownerID
	// Returns ErrNotFound for missing, foreign or tombstoned notes
	GetOwned(ctx context.Context, ownerID, id string) (*models.Note, error)

	// GetOwnedAny retrieves a note owned by ownerID including tombstoned
	// ones. Used by reconciliation, which may re-apply deltas to records
	// the server has already tombstoned.
	GetOwnedAny(ctx context.Context, ownerID, id string) (*models.Note, error)

	// ListByOwner retrieves all non-tombstoned notes of a user,
	// newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error)

	// SoftDelete marks an owned note as deleted and refreshes updatedAt
	// Returns ErrNotFound for missing or foreign notes
	SoftDelete(ctx context.Context, ownerID, id string, now time.Time) error

	// UpdatedSince retrieves all notes of a user, tombstoned included,
	// with updatedAt strictly greater than since
	UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]*models.Note, error)
}
