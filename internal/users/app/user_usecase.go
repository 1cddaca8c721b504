// Package app реализует прикладную логику сервиса пользователей.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"usermgmt/internal/users/app/dto"
	"usermgmt/internal/users/app/mapper"
	"usermgmt/internal/users/domain/entities"
	"usermgmt/internal/users/ports/repositories"
	"usermgmt/pkg/logger"
)

// UserUseCase оркестрирует операции над пользователями: перевод между
// публичной моделью и сущностью хранилища и обращение к репозиторию.
type UserUseCase struct {
	userRepo repositories.UserRepository
	clock    func() time.Time
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(userRepo repositories.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		clock:    time.Now,
	}
}

// NewUserUseCaseWithClock создает UserUseCase с внешним источником времени.
func NewUserUseCaseWithClock(userRepo repositories.UserRepository, clock func() time.Time) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		clock:    clock,
	}
}

// registrationDate усекает текущий момент до календарной даты в UTC.
func (uc *UserUseCase) registrationDate() time.Time {
	now := uc.clock().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateUser создает пользователя со свежим идентификатором и сегодняшней
// датой регистрации.
func (uc *UserUseCase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "UserUseCase.CreateUser"))

	user := mapper.ToEntity(uuid.New(), req, uc.registrationDate())

	if err := uc.userRepo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug(ctx, "user created", zap.String("id", user.ID.String()))
	return mapper.ToResponse(user), nil
}

// ListUsers возвращает страницу пользователей в запрошенном порядке.
// Список может быть пустым.
func (uc *UserUseCase) ListUsers(ctx context.Context, query dto.ListUsersQuery) ([]*dto.UserResponse, error) {
	users, err := uc.userRepo.FindAll(ctx, repositories.ListParams{
		Limit:   query.Limit,
		Offset:  query.Offset,
		OrderBy: query.OrderBy,
		Sort:    query.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, mapper.ToResponse(user))
	}
	return responses, nil
}

// GetUser возвращает пользователя по идентификатору.
func (uc *UserUseCase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, entities.ErrUserNotFound
	}

	return mapper.ToResponse(user), nil
}

// UpdateUser заменяет поля существующей записи, сохраняя идентификатор
// и дату регистрации.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "UserUseCase.UpdateUser"))

	existing, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing == nil {
		return nil, entities.ErrUserNotFound
	}

	user := mapper.ToEntityFromUpdate(existing.ID, req, existing.RegistrationDate)

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Debug(ctx, "user updated", zap.String("id", user.ID.String()))
	return mapper.ToResponse(user), nil
}

// DeleteUser удаляет пользователя и возвращает его последнее известное
// состояние.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	log := logger.Log(ctx).With(zap.String("usecase", "UserUseCase.DeleteUser"))

	existing, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing == nil {
		return nil, entities.ErrUserNotFound
	}

	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	log.Debug(ctx, "user deleted", zap.String("id", id.String()))
	return mapper.ToResponse(existing), nil
}
