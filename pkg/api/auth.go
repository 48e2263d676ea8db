package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary представляет публичную часть профиля пользователя
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse представляет ответ на успешную регистрацию или вход
type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"` // подписанный JWT bearer token
	User    UserSummary `json:"user"`
}

// UpdateProfileRequest представляет запрос на изменение профиля.
// Пустые поля не изменяются.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
