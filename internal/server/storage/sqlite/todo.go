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

const todoColumns = "id, user_id, local_id, title, description, completed, due_date, completed_at, is_deleted, created_at, updated_at"

// TodoStorage implements storage.TodoStore over SQLite
type TodoStorage struct {
	db *sql.DB
}

// Insert stores a new todo
func (s *TodoStorage) Insert(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (` + todoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		todo.ID,
		todo.OwnerID,
		todo.LocalID,
		todo.Title,
		todo.Description,
		boolToInt(todo.Completed),
		timePtrToMs(todo.DueDate),
		timePtrToMs(todo.CompletedAt),
		boolToInt(todo.IsDeleted),
		todo.CreatedAt.UnixMilli(),
		todo.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// Update overwrites the stored row for todo.ID
func (s *TodoStorage) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = ?, description = ?, completed = ?, due_date = ?,
		    completed_at = ?, is_deleted = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		todo.Title,
		todo.Description,
		boolToInt(todo.Completed),
		timePtrToMs(todo.DueDate),
		timePtrToMs(todo.CompletedAt),
		boolToInt(todo.IsDeleted),
		todo.UpdatedAt.UnixMilli(),
		todo.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
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

// GetOwned retrieves a non-tombstoned todo owned by ownerID
func (s *TodoStorage) GetOwned(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = ? AND user_id = ? AND is_deleted = 0
	`
	return s.getTodo(ctx, query, id, ownerID)
}

// GetOwnedAny retrieves a todo owned by ownerID including tombstoned ones
func (s *TodoStorage) GetOwnedAny(ctx context.Context, ownerID, id string) (*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = ? AND user_id = ?
	`
	return s.getTodo(ctx, query, id, ownerID)
}

func (s *TodoStorage) getTodo(ctx context.Context, query string, args ...any) (*models.Todo, error) {
	row := s.db.QueryRowContext(ctx, query, args...)

	todo, err := scanTodo(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListByOwner retrieves non-tombstoned todos of a user matching the filter,
// ordered by due date ascending then creation time descending
func (s *TodoStorage) ListByOwner(ctx context.Context, ownerID string, filter storage.TodoFilter) ([]*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = ? AND is_deleted = 0
	`
	args := []any{ownerID}

	if filter.Completed != nil {
		query += " AND completed = ?"
		args = append(args, boolToInt(*filter.Completed))
	}
	if filter.DueOn != nil {
		dayStart, dayEnd := dayBounds(*filter.DueOn)
		query += " AND due_date >= ? AND due_date < ?"
		args = append(args, dayStart.UnixMilli(), dayEnd.UnixMilli())
	}

	query += " ORDER BY due_date ASC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// SoftDelete marks an owned todo as deleted and refreshes updated_at
func (s *TodoStorage) SoftDelete(ctx context.Context, ownerID, id string, now time.Time) error {
	query := `
		UPDATE todos
		SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query, now.UnixMilli(), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to soft delete todo: %w", err)
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

// UpdatedSince retrieves all todos of a user, tombstoned included,
// with updated_at strictly greater than since
func (s *TodoStorage) UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = ? AND updated_at > ?
		ORDER BY updated_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, since.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query todos since timestamp: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// DueBetween retrieves non-tombstoned todos of a user with a due date
// inside [start, end], ordered by due date ascending
func (s *TodoStorage) DueBetween(ctx context.Context, ownerID string, start, end time.Time) ([]*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = ? AND is_deleted = 0
		  AND due_date >= ? AND due_date <= ?
		ORDER BY due_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query todos by due date: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// scanTodo reads one todo row via the given scan function
func scanTodo(scan func(dest ...any) error) (*models.Todo, error) {
	todo := &models.Todo{}
	var completed, deleted int
	var dueDate, completedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.LocalID,
		&todo.Title,
		&todo.Description,
		&completed,
		&dueDate,
		&completedAt,
		&deleted,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.Completed = intToBool(completed)
	todo.IsDeleted = intToBool(deleted)
	todo.DueDate = msToTimePtr(dueDate)
	todo.CompletedAt = msToTimePtr(completedAt)
	todo.CreatedAt = time.UnixMilli(createdAt)
	todo.UpdatedAt = time.UnixMilli(updatedAt)

	return todo, nil
}

func scanTodos(rows *sql.Rows) ([]*models.Todo, error) {
	var todos []*models.Todo

	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return todos, nil
}

func timePtrToMs(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func msToTimePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}

// dayBounds returns the [start, next day start) interval covering the
// calendar day of t in UTC
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
