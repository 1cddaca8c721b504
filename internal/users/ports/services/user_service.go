// Package services определяет контракты прикладного уровня для HTTP-адаптера.
package services

import (
	"context"

	"github.com/google/uuid"

	"usermgmt/internal/users/app/dto"
)

// UserService описывает операции управления пользователями,
// доступные HTTP-обработчикам.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, query dto.ListUsersQuery) ([]*dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
}
