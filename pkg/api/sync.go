package api

import "time"

// NoteDelta представляет одно клиентское изменение заметки в sync-батче.
// Классификация:
//   - ID задан: обновление, либо tombstone при IsDeleted=true;
//   - ID пуст, LocalID задан: создание новой записи;
//   - оба пусты: ошибка, элемент попадает в errors.
//
// Поля payload объявлены указателями: nil означает "поле не меняется".
// Мерж идет по явному whitelist, delta не может переписать ownerId или
// createdAt. Ключ "_id" сохранен от исходного клиентского протокола.
type NoteDelta struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	IsDeleted *bool   `json:"isDeleted,omitempty"`
	ID        string  `json:"_id,omitempty"`
	LocalID   string  `json:"localId,omitempty"`
}

// TargetID возвращает серверный ID записи, пустая строка для создания
func (d *NoteDelta) TargetID() string { return d.ID }

// CorrelationID возвращает клиентский localId
func (d *NoteDelta) CorrelationID() string { return d.LocalID }

// Tombstone сообщает, что delta запрашивает soft delete
func (d *NoteDelta) Tombstone() bool { return d.IsDeleted != nil && *d.IsDeleted }

// TodoDelta представляет одно клиентское изменение задачи в sync-батче.
// Семантика полей как у NoteDelta.
type TodoDelta struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsDeleted   *bool      `json:"isDeleted,omitempty"`
	ID          string     `json:"_id,omitempty"`
	LocalID     string     `json:"localId,omitempty"`
}

// TargetID возвращает серверный ID записи, пустая строка для создания
func (d *TodoDelta) TargetID() string { return d.ID }

// CorrelationID возвращает клиентский localId
func (d *TodoDelta) CorrelationID() string { return d.LocalID }

// Tombstone сообщает, что delta запрашивает soft delete
func (d *TodoDelta) Tombstone() bool { return d.IsDeleted != nil && *d.IsDeleted }

// SyncNotesRequest представляет тело POST /api/notes/sync
type SyncNotesRequest struct {
	Notes []*NoteDelta `json:"notes"`
}

// SyncTodosRequest представляет тело POST /api/todos/sync
type SyncTodosRequest struct {
	Todos []*TodoDelta `json:"todos"`
}
