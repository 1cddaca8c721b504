// Package mapper выполняет чистое преобразование между сущностью
// хранилища и публичной моделью пользователя.
package mapper

import (
	"time"

	"github.com/google/uuid"

	"usermgmt/internal/users/app/dto"
	"usermgmt/internal/users/domain/entities"
)

// ToEntity собирает сущность из данных создания и назначенных сервером
// идентификатора и даты регистрации.
func ToEntity(id uuid.UUID, req *dto.CreateUserRequest, registrationDate time.Time) *entities.User {
	return &entities.User{
		ID:               id,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Age:              req.Age,
		Login:            req.Login,
		Email:            req.Email,
		RegistrationDate: registrationDate,
	}
}

// ToEntityFromUpdate собирает сущность из данных обновления, сохраняя
// идентификатор и дату регистрации существующей записи.
func ToEntityFromUpdate(id uuid.UUID, req *dto.UpdateUserRequest, registrationDate time.Time) *entities.User {
	return &entities.User{
		ID:               id,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Age:              req.Age,
		Login:            req.Login,
		Email:            req.Email,
		RegistrationDate: registrationDate,
	}
}

// ToResponse преобразует сущность в публичную модель.
func ToResponse(user *entities.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:               user.ID.String(),
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Age:              user.Age,
		Login:            user.Login,
		Email:            user.Email,
		RegistrationDate: dto.NewDate(user.RegistrationDate),
	}
}
