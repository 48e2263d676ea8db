// Package validation contains field-level validators shared by the HTTP
// handlers and the sync reconciliation path. A validator returns a plain
// error describing the first violated rule; callers map it to a 400 or to
// an item-local sync error.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern определяет допустимый формат email
var EmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const (
	// MaxTitleLen максимальная длина заголовка заметки или задачи
	MaxTitleLen = 100
	// MaxNameLen максимальная длина имени пользователя
	MaxNameLen = 50
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 6
)

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailPattern.MatchString(strings.ToLower(email)) {
		return fmt.Errorf("please provide a valid email")
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// ValidateUser проверяет поля регистрации нового пользователя
func ValidateUser(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("name cannot be more than %d characters", MaxNameLen)
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateNote проверяет payload заметки перед записью в хранилище
func ValidateNote(title, content string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ValidateTodo проверяет payload задачи перед записью в хранилище
func ValidateTodo(title string) error {
	return validateTitle(title)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title cannot be more than %d characters", MaxTitleLen)
	}
	return nil
}
