package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// UserIDKey ключ для хранения user_id в контексте
const UserIDKey contextKey = "user_id"

// GetUserID извлекает user_id из контекста запроса.
// Значение устанавливает AuthMiddleware; каждая операция получает
// принадлежность запроса явно через контекст, а не через общее
// мутабельное состояние.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
