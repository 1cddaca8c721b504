// Package dto содержит объекты передачи данных API пользователей.
package dto

// CreateUserRequest содержит данные для создания пользователя.
// Идентификатор и дата регистрации назначаются сервером.
type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Age       int    `json:"age" validate:"required,gte=16,lte=99"`
	Login     string `json:"login" validate:"required,min=4,max=50"`
	Email     string `json:"email" validate:"required,email"`
}

// UpdateUserRequest содержит данные для обновления пользователя.
// Идентификатор и дата регистрации сохраняются из существующей записи.
type UpdateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Age       int    `json:"age" validate:"required,gte=16,lte=99"`
	Login     string `json:"login" validate:"required,min=4,max=50"`
	Email     string `json:"email" validate:"required,email"`
}

// UserResponse - публичное представление записи пользователя.
type UserResponse struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Age              int    `json:"age"`
	Login            string `json:"login"`
	Email            string `json:"email"`
	RegistrationDate Date   `json:"registration_date"`
}

// ListUsersQuery содержит параметры выборки списка пользователей.
type ListUsersQuery struct {
	Limit   int    `validate:"gte=0,lte=100"`
	Offset  int    `validate:"gte=0,lte=99"`
	OrderBy string `validate:"oneof=id first_name last_name age login email registration_date"`
	Sort    string `validate:"oneof=ASC DESC"`
}

// Значения параметров списка по умолчанию.
const (
	DefaultLimit   = 25
	DefaultOffset  = 0
	DefaultOrderBy = "id"
	DefaultSort    = "ASC"
)

// NewListUsersQuery возвращает параметры выборки со значениями по умолчанию.
func NewListUsersQuery() ListUsersQuery {
	return ListUsersQuery{
		Limit:   DefaultLimit,
		Offset:  DefaultOffset,
		OrderBy: DefaultOrderBy,
		Sort:    DefaultSort,
	}
}
