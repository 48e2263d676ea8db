package sync

import (
	"time"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/pkg/api"
)

// MergeNote накатывает непустые поля delta на заметку по явному
// whitelist. Delta не может изменить id, ownerId или createdAt.
// UpdatedAt обновляется всегда, даже если payload не изменился.
func MergeNote(n *models.Note, d *api.NoteDelta, now time.Time) {
	if d.Title != nil {
		n.Title = *d.Title
	}
	if d.Content != nil {
		n.Content = *d.Content
	}
	if d.IsDeleted != nil {
		n.IsDeleted = *d.IsDeleted
	}
	n.UpdatedAt = now
}

// MergeTodo накатывает непустые поля delta на задачу. Мутация флага
// completed ведет за собой completedAt (см. Todo.SetCompleted).
func MergeTodo(t *models.Todo, d *api.TodoDelta, now time.Time) {
	if d.Title != nil {
		t.Title = *d.Title
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
	if d.DueDate != nil {
		due := *d.DueDate
		t.DueDate = &due
	}
	if d.Completed != nil {
		t.SetCompleted(*d.Completed, now)
	}
	if d.IsDeleted != nil {
		t.IsDeleted = *d.IsDeleted
	}
	t.UpdatedAt = now
}
