package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/syncpad/internal/models"
	"github.com/iudanet/syncpad/pkg/api"
)

func TestMergeNote_WhitelistOnly(t *testing.T) {
	created := time.Now().UTC().Add(-time.Hour)
	note := models.Note{
		ID:        "server-id",
		OwnerID:   "owner",
		Title:     "title",
		Content:   "content",
		CreatedAt: created,
		UpdatedAt: created,
	}

	now := time.Now().UTC()
	MergeNote(&note, &api.NoteDelta{Title: strPtr("new title")}, now)

	assert.Equal(t, "new title", note.Title)
	assert.Equal(t, "content", note.Content)
	// идентичность и происхождение записи неизменяемы
	assert.Equal(t, "server-id", note.ID)
	assert.Equal(t, "owner", note.OwnerID)
	assert.Equal(t, created, note.CreatedAt)
	assert.Equal(t, now, note.UpdatedAt)
}

func TestMergeNote_NilFieldsUntouched(t *testing.T) {
	note := models.Note{Title: "keep", Content: "keep too"}

	MergeNote(&note, &api.NoteDelta{}, time.Now().UTC())

	assert.Equal(t, "keep", note.Title)
	assert.Equal(t, "keep too", note.Content)
}

func TestMergeNote_EmptyDeltaStillTouchesUpdatedAt(t *testing.T) {
	old := time.Now().UTC().Add(-time.Hour)
	note := models.Note{UpdatedAt: old, Title: "t", Content: "c"}

	now := time.Now().UTC()
	MergeNote(&note, &api.NoteDelta{}, now)

	assert.Equal(t, now, note.UpdatedAt)
}

func TestMergeTodo_CompletedDrivesCompletedAt(t *testing.T) {
	todo := models.Todo{Title: "task"}

	now := time.Now().UTC()
	MergeTodo(&todo, &api.TodoDelta{Completed: boolPtr(true)}, now)

	assert.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)
	assert.Equal(t, now, *todo.CompletedAt)

	later := now.Add(time.Minute)
	MergeTodo(&todo, &api.TodoDelta{Completed: boolPtr(false)}, later)

	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
	assert.Equal(t, later, todo.UpdatedAt)
}

func TestMergeTodo_RepeatedCompleteKeepsOriginalTimestamp(t *testing.T) {
	todo := models.Todo{Title: "task"}

	first := time.Now().UTC()
	MergeTodo(&todo, &api.TodoDelta{Completed: boolPtr(true)}, first)
	require.NotNil(t, todo.CompletedAt)

	// no-op переход не переписывает момент завершения
	MergeTodo(&todo, &api.TodoDelta{Completed: boolPtr(true)}, first.Add(time.Hour))

	assert.Equal(t, first, *todo.CompletedAt)
}

func TestMergeTodo_DueDateCopied(t *testing.T) {
	todo := models.Todo{Title: "task"}
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	MergeTodo(&todo, &api.TodoDelta{DueDate: &due}, time.Now().UTC())

	require.NotNil(t, todo.DueDate)
	assert.Equal(t, due, *todo.DueDate)
}
