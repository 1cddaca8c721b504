// Package entities содержит доменные сущности сервиса пользователей.
package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ошибки домена пользователя.
var (
	// ErrUserNotFound возвращается, когда запись с указанным id отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserConflict возвращается, когда хранилище отклоняет запись
	// из-за нарушения ограничения уникальности.
	ErrUserConflict = errors.New("user violates unique constraint")
)

// User - хранимое представление записи пользователя.
// ID и RegistrationDate назначаются один раз при создании и не изменяются.
type User struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Age              int
	Login            string
	Email            string
	RegistrationDate time.Time
}
