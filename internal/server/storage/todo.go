package storage

import (
	"context"
	"time"

	"github.com/iudanet/syncpad/internal/models"
)

// TodoFilter narrows a todo listing. Nil fields are not applied.
type TodoFilter struct {
	// Completed keeps only todos with the given completion flag
	Completed *bool
	// DueOn keeps only todos due within the given calendar day
	DueOn *time.Time
}

// TodoStore defines interface for todo persistence.
// Ownership and tombstone semantics match NoteStore.
type TodoStore interface {
	// Insert stores a new todo
	Insert(ctx context.Context, todo *models.Todo) error

	// Update overwrites the stored row for todo.ID
	// Returns ErrNotFound if the row doesn't exist
	Update(ctx context.Context, todo *models.Todo) error

	// GetOwned retrieves a non-tombstoned todo owned by ownerID
	// Returns ErrNotFound for missing, foreign or tombstoned todos
	GetOwned(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// GetOwnedAny retrieves a todo owned by ownerID including tombstoned ones
	GetOwnedAny(ctx context.Context, ownerID, id string) (*models.Todo, error)

	// ListByOwner retrieves non-tombstoned todos of a user matching the
	// filter, ordered by dueDate ascending then createdAt descending
	ListByOwner(ctx context.Context, ownerID string, filter TodoFilter) ([]*models.Todo, error)

	// SoftDelete marks an owned todo as deleted and refreshes updatedAt
	// Returns ErrNotFound for missing or foreign todos
	SoftDelete(ctx context.Context, ownerID, id string, now time.Time) error

	// UpdatedSince retrieves all todos of a user, tombstoned included,
	// with updatedAt strictly greater than since
	UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]*models.Todo, error)

	// DueBetween retrieves non-tombstoned todos of a user with a due date
	// inside [start, end], ordered by dueDate ascending
	DueBetween(ctx context.Context, ownerID string, start, end time.Time) ([]*models.Todo, error)
}
