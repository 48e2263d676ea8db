package models

import "time"

// Todo представляет задачу пользователя.
// Метаданные синхронизации (LocalID, IsDeleted, UpdatedAt) устроены
// так же, как у Note.
type Todo struct {
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"` // выставляется при completed=true, сбрасывается при false
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	LocalID     string     `json:"localId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	IsDeleted   bool       `json:"isDeleted"`
}

// SetCompleted выставляет флаг выполнения и ведет CompletedAt:
// переход в completed фиксирует момент завершения, обратный переход
// очищает его. Побочный эффект мутации флага, не отдельная операция.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	if t.Completed == completed {
		return
	}
	t.Completed = completed
	if completed {
		ts := now
		t.CompletedAt = &ts
	} else {
		t.CompletedAt = nil
	}
}
