package service

import (
	"errors"

	"github.com/linemk/storefront/internal/storage"
)

var (
	// ErrValidation - общий признак ошибки входных данных, сверяется через errors.Is
	ErrValidation = errors.New("validation failed")
	// ErrForbidden - у пользователя нет нужного права
	ErrForbidden       = errors.New("forbidden")
	ErrOrderNotFound   = storage.ErrOrderNotFound
	ErrProductNotFound = storage.ErrProductNotFound
	// ErrInvalidCredentials - пароль не совпал с сохранённым хэшем
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError несёт сообщение, которое можно показать клиенту
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
