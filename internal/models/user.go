package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time `json:"createdAt"`  // время регистрации
	LastSynced   time.Time `json:"lastSynced"` // watermark последней успешной синхронизации
	ID           string    `json:"id"`         // UUID пользователя
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt хеш, никогда не сериализуется
}
