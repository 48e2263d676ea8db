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

// todoRecords адаптирует storage.TodoStore к реконсайлеру
type todoRecords struct {
	todos storage.TodoStore
}

// NewTodoReconciler creates the reconciler for the todos resource
func NewTodoReconciler(logger *slog.Logger, todos storage.TodoStore, cursor Cursor) *Reconciler[*api.TodoDelta, *models.Todo] {
	return NewReconciler[*api.TodoDelta, *models.Todo](logger, &todoRecords{todos: todos}, cursor)
}

// NewTodoFeed creates the change feed for the todos resource
func NewTodoFeed(logger *slog.Logger, todos storage.TodoStore, users UserLookup) *Feed[*models.Todo] {
	return NewFeed[*models.Todo](logger, todos, users)
}

func (s *todoRecords) Lookup(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	return s.todos.GetOwnedAny(ctx, ownerID, id)
}

func (s *todoRecords) Create(ctx context.Context, ownerID string, d *api.TodoDelta, now time.Time) (*models.Todo, error) {
	todo := &models.Todo{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		LocalID:   d.LocalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.Title != nil {
		todo.Title = *d.Title
	}
	if d.Description != nil {
		todo.Description = *d.Description
	}
	if d.DueDate != nil {
		due := *d.DueDate
		todo.DueDate = &due
	}
	if d.Completed != nil {
		todo.SetCompleted(*d.Completed, now)
	}
	if err := validation.ValidateTodo(todo.Title); err != nil {
		return nil, err
	}
	if err := s.todos.Insert(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoRecords) Apply(ctx context.Context, ownerID string, existing *models.Todo, d *api.TodoDelta, now time.Time) (*models.Todo, error) {
	todo := *existing
	MergeTodo(&todo, d, now)
	// владелец не переназначается deltas
	todo.OwnerID = ownerID
	if err := validation.ValidateTodo(todo.Title); err != nil {
		return nil, err
	}
	if err := s.todos.Update(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *todoRecords) Tombstone(ctx context.Context, ownerID, id string, now time.Time) error {
	return s.todos.SoftDelete(ctx, ownerID, id, now)
}
