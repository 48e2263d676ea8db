package models

import "time"

// Note представляет заметку пользователя.
// Записи никогда не удаляются физически: удаление выставляет
// IsDeleted (tombstone), чтобы офлайн-клиенты узнали об удалении
// через ленту изменений.
type Note struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"` // обновляется при каждой мутации, включая tombstone
	ID        string    `json:"id"`        // UUID, выдается сервером
	OwnerID   string    `json:"ownerId"`   // владелец фиксируется при создании
	LocalID   string    `json:"localId,omitempty"` // клиентский ID до первой синхронизации
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsDeleted bool      `json:"isDeleted"`
}
