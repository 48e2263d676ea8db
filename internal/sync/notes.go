package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/internal/server/storage"
	"github.com/iudanet/syncpad/internal/validation"
	"github.com/iudanet/syncpad/pkg/api"
)

// noteRecords адаптирует storage.NoteStore к реконсайлеру
type noteRecords struct {
	notes storage.NoteStore
}

// NewNoteReconciler creates the reconciler for the notes resource
func NewNoteReconciler(logger *slog.Logger, notes storage.NoteStore, cursor Cursor) *Reconciler[*api.NoteDelta, *models.Note] {
	return NewReconciler[*api.NoteDelta, *models.Note](logger, &noteRecords{notes: notes}, cursor)
}

// NewNoteFeed creates the change feed for the notes resource
func NewNoteFeed(logger *slog.Logger, notes storage.NoteStore, users UserLookup) *Feed[*models.Note] {
	return NewFeed[*models.Note](logger, notes, users)
}

func (s *noteRecords) Lookup(ctx context.Context, ownerID, id string) (*models.Note, error) {
	return s.notes.GetOwnedAny(ctx, ownerID, id)
}

func (s *noteRecords) Create(ctx context.Context, ownerID string, d *api.NoteDelta, now time.Time) (*models.Note, error) {
	note := &models.Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		LocalID:   d.LocalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.Title != nil {
		note.Title = *d.Title
	}
	if d.Content != nil {
		note.Content = *d.Content
	}
	if err := validation.ValidateNote(note.Title, note.Content); err != nil {
		return nil, err
	}
	if err := s.notes.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteRecords) Apply(ctx context.Context, ownerID string, existing *models.Note, d *api.NoteDelta, now time.Time) (*models.Note, error) {
	note := *existing
	MergeNote(&note, d, now)
	// владелец не переназначается deltas
	note.OwnerID = ownerID
	if err := validation.ValidateNote(note.Title, note.Content); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *noteRecords) Tombstone(ctx context.Context, ownerID, id string, now time.Time) error {
	return s.notes.SoftDelete(ctx, ownerID, id, now)
}
