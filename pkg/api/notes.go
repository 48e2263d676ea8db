package api

import "time"

// CreateNoteRequest представляет тело POST /api/notes
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreateTodoRequest представляет тело POST /api/todos
type CreateTodoRequest struct {
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed,omitempty"`
}
