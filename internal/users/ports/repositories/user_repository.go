// Package repositories определяет контракты доступа к хранилищу пользователей.
package repositories

import (
	"context"

	"github.com/google/uuid"

	"usermgmt/internal/users/domain/entities"
)

// ListParams описывает страницу и порядок выборки списка пользователей.
// Значения проверяются до обращения к хранилищу: Limit в [0,100],
// Offset в [0,99], OrderBy - одна из колонок таблицы, Sort - ASC или DESC.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Sort    string
}

// UserRepository определяет операции над записями пользователей.
// Отсутствие записи не является ошибкой: FindByID возвращает (nil, nil).
type UserRepository interface {
	// Insert сохраняет новую запись. Нарушение уникальности login или email
	// возвращается как entities.ErrUserConflict.
	Insert(ctx context.Context, user *entities.User) error
	// FindByID возвращает запись по id или (nil, nil), если ее нет.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	// FindAll возвращает упорядоченную страницу записей.
	FindAll(ctx context.Context, params ListParams) ([]*entities.User, error)
	// Update заменяет все поля записи, кроме id и registration_date.
	Update(ctx context.Context, user *entities.User) error
	// Delete удаляет запись по id. Удаление отсутствующей записи не ошибка.
	Delete(ctx context.Context, id uuid.UUID) error
}
