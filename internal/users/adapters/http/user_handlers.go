// Package http содержит HTTP-обработчики ресурса пользователей.
package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"usermgmt/internal/users/adapters/http/middleware"
	"usermgmt/internal/users/app/dto"
	"usermgmt/internal/users/app/validation"
	"usermgmt/internal/users/domain/entities"
	"usermgmt/internal/users/ports/services"
	"usermgmt/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerCreateUser = "handling create user request"
	LogHandlerListUsers  = "handling list users request"
	LogHandlerGetUser    = "handling get user request"
	LogHandlerUpdateUser = "handling update user request"
	LogHandlerDeleteUser = "handling delete user request"
)

// Константы сообщений об ошибках.
const (
	ErrMsgInvalidUserID      = "invalid user id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInvalidQueryParams = "invalid query parameters"
	ErrMsgUserNotFound       = "user not found"
	ErrMsgUserConflict       = "login or email already in use"
	ErrMsgInternal           = "internal server error"
)

// Handler обрабатывает HTTP-запросы к ресурсу /user.
type Handler struct {
	userService services.UserService
}

// NewHandler создает новый обработчик ресурса пользователей.
func NewHandler(userService services.UserService) *Handler {
	return &Handler{userService: userService}
}

// requestContext возвращает контекст запроса с идентификатором запроса,
// подготовленный промежуточным ПО.
func requestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(middleware.RequestContextKey).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}

// CreateUser обрабатывает запрос на создание пользователя.
func (h *Handler) CreateUser(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateUser"))
	log.Debug(requestCtx, LogHandlerCreateUser)

	var req dto.CreateUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Int("field_errors", len(fieldErrors)))
		return sendValidationErrors(ctx, fieldErrors)
	}

	user, err := h.userService.CreateUser(requestCtx, &req)
	if err != nil {
		log.Error(requestCtx, "failed to create user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListUsers обрабатывает запрос списка пользователей с пагинацией и сортировкой.
func (h *Handler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListUsers"))
	log.Debug(requestCtx, LogHandlerListUsers)

	query, err := parseListQuery(ctx)
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidQueryParams, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidQueryParams)
	}

	if fieldErrors := validation.Validate(query); fieldErrors != nil {
		log.Debug(requestCtx, ErrMsgInvalidQueryParams, zap.Int("field_errors", len(fieldErrors)))
		return sendValidationErrors(ctx, fieldErrors)
	}

	users, err := h.userService.ListUsers(requestCtx, query)
	if err != nil {
		log.Error(requestCtx, "failed to list users", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(users); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetUser обрабатывает запрос на получение пользователя по id.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetUser"))
	log.Debug(requestCtx, LogHandlerGetUser)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidUserID, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID)
	}

	user, err := h.userService.GetUser(requestCtx, id)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(requestCtx, "failed to get user", zap.Error(err))
		}
		return handleError(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateUser обрабатывает запрос на обновление пользователя.
func (h *Handler) UpdateUser(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateUser"))
	log.Debug(requestCtx, LogHandlerUpdateUser)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidUserID, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID)
	}

	var req dto.UpdateUserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Int("field_errors", len(fieldErrors)))
		return sendValidationErrors(ctx, fieldErrors)
	}

	user, err := h.userService.UpdateUser(requestCtx, id, &req)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(requestCtx, "failed to update user", zap.Error(err))
		}
		return handleError(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteUser обрабатывает запрос на удаление пользователя. В ответе
// возвращается последнее известное состояние удаленной записи.
func (h *Handler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := requestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteUser"))
	log.Debug(requestCtx, LogHandlerDeleteUser)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		log.Debug(requestCtx, ErrMsgInvalidUserID, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidUserID)
	}

	user, err := h.userService.DeleteUser(requestCtx, id)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(requestCtx, "failed to delete user", zap.Error(err))
		}
		return handleError(ctx, err)
	}

	if err := ctx.JSON(user); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// parseListQuery разбирает параметры списка, подставляя значения по умолчанию.
func parseListQuery(ctx fiber.Ctx) (dto.ListUsersQuery, error) {
	query := dto.NewListUsersQuery()

	limit, err := strconv.Atoi(ctx.Query("limit", strconv.Itoa(dto.DefaultLimit)))
	if err != nil {
		return query, fmt.Errorf("failed to parse limit: %w", err)
	}
	query.Limit = limit

	offset, err := strconv.Atoi(ctx.Query("offset", strconv.Itoa(dto.DefaultOffset)))
	if err != nil {
		return query, fmt.Errorf("failed to parse offset: %w", err)
	}
	query.Offset = offset

	query.OrderBy = ctx.Query("orderBy", dto.DefaultOrderBy)
	query.Sort = ctx.Query("sort", dto.DefaultSort)

	return query, nil
}

// handleError переводит ошибки прикладного уровня в HTTP-статусы.
func handleError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		return sendError(ctx, fiber.StatusNotFound, ErrMsgUserNotFound)
	case errors.Is(err, entities.ErrUserConflict):
		return sendError(ctx, fiber.StatusConflict, ErrMsgUserConflict)
	default:
		return sendError(ctx, fiber.StatusInternalServerError, ErrMsgInternal)
	}
}

// sendError отправляет JSON-тело с сообщением об ошибке.
func sendError(ctx fiber.Ctx, status int, message string) error {
	if err := ctx.Status(status).JSON(fiber.Map{"error": message}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}

// sendValidationErrors отправляет список ошибок валидации по полям.
func sendValidationErrors(ctx fiber.Ctx, fieldErrors []validation.FieldError) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrors}); err != nil {
		return fmt.Errorf("error sending validation response: %w", err)
	}
	return nil
}
