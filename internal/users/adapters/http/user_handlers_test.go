package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpServer "usermgmt/internal/users/adapters/http"
	"usermgmt/internal/users/app/dto"
	"usermgmt/internal/users/domain/entities"
)

var errService = errors.New("service failure")

// MockUserService - мок сервиса пользователей.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp, ok := args.Get(0).(*dto.UserResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, query dto.ListUsersQuery) ([]*dto.UserResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	responses, ok := args.Get(0).([]*dto.UserResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return responses, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp, ok := args.Get(0).(*dto.UserResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp, ok := args.Get(0).(*dto.UserResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	resp, ok := args.Get(0).(*dto.UserResponse)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

// stubPinger - заглушка проверки хранилища для маршрута здоровья.
type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context) error {
	return p.err
}

func newTestApp(service *MockUserService, pinger *stubPinger) *fiber.App {
	app := fiber.New()
	httpServer.SetupRouter(app, service, pinger)
	return app
}

func userResponse() *dto.UserResponse {
	return &dto.UserResponse{
		ID:               uuid.New().String(),
		FirstName:        "Jack",
		LastName:         "Dawson",
		Age:              25,
		Login:            "jAckDaWson23",
		Email:            "jack.dawson@gmail.com",
		RegistrationDate: dto.NewDate(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestCreateUser(t *testing.T) {
	t.Run("successful create", func(t *testing.T) {
		mockService := new(MockUserService)
		expected := userResponse()
		mockService.On("CreateUser", mock.Anything, mock.AnythingOfType("*dto.CreateUserRequest")).
			Return(expected, nil)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        25,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/user", body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.UserResponse
		decodeBody(t, resp, &got)
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, "Jack", got.FirstName)
		assert.Equal(t, "Dawson", got.LastName)
		assert.Equal(t, 25, got.Age)
		assert.Equal(t, "jAckDaWson23", got.Login)
		assert.Equal(t, "jack.dawson@gmail.com", got.Email)
		assert.Equal(t, "2024-03-14", got.RegistrationDate.String())

		mockService.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "J",
			"last_name":  "Dawson",
			"age":        15,
			"login":      "jck",
			"email":      "not-an-email",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/user", body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var got struct {
			Errors []struct {
				Field string `json:"field"`
				Rule  string `json:"rule"`
			} `json:"errors"`
		}
		decodeBody(t, resp, &got)
		require.Len(t, got.Errors, 4)

		mockService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		req, err := http.NewRequest(http.MethodPost, "/user", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("duplicate login or email", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateUser", mock.Anything, mock.AnythingOfType("*dto.CreateUserRequest")).
			Return(nil, entities.ErrUserConflict)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        25,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/user", body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var got map[string]string
		decodeBody(t, resp, &got)
		assert.Equal(t, httpServer.ErrMsgUserConflict, got["error"])

		mockService.AssertExpectations(t)
	})

	t.Run("internal error", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateUser", mock.Anything, mock.AnythingOfType("*dto.CreateUserRequest")).
			Return(nil, errService)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        25,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/user", body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		mockService.AssertExpectations(t)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		mockService := new(MockUserService)
		expectedQuery := dto.ListUsersQuery{Limit: 25, Offset: 0, OrderBy: "id", Sort: "ASC"}
		mockService.On("ListUsers", mock.Anything, expectedQuery).
			Return([]*dto.UserResponse{userResponse()}, nil)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []*dto.UserResponse
		decodeBody(t, resp, &got)
		require.Len(t, got, 1)

		mockService.AssertExpectations(t)
	})

	t.Run("explicit parameters forwarded", func(t *testing.T) {
		mockService := new(MockUserService)
		expectedQuery := dto.ListUsersQuery{Limit: 10, Offset: 5, OrderBy: "last_name", Sort: "DESC"}
		mockService.On("ListUsers", mock.Anything, expectedQuery).
			Return([]*dto.UserResponse{}, nil)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user?limit=10&offset=5&orderBy=last_name&sort=DESC", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []*dto.UserResponse
		decodeBody(t, resp, &got)
		assert.Empty(t, got)

		mockService.AssertExpectations(t)
	})

	t.Run("limit above maximum", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user?limit=101", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})

	t.Run("offset above maximum", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user?offset=100", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user?limit=ten", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})

	t.Run("unknown order column", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user?orderBy=password", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("successful get", func(t *testing.T) {
		mockService := new(MockUserService)
		expected := userResponse()
		userID := uuid.MustParse(expected.ID)
		mockService.On("GetUser", mock.Anything, userID).Return(expected, nil)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user/"+expected.ID, nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.UserResponse
		decodeBody(t, resp, &got)
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, expected.Login, got.Login)

		mockService.AssertExpectations(t)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		mockService := new(MockUserService)
		unknownID := uuid.New()
		mockService.On("GetUser", mock.Anything, unknownID).Return(nil, entities.ErrUserNotFound)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user/"+unknownID.String(), nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var got map[string]string
		decodeBody(t, resp, &got)
		assert.Equal(t, httpServer.ErrMsgUserNotFound, got["error"])

		mockService.AssertExpectations(t)
	})

	t.Run("malformed identifier", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/user/not-a-uuid", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("successful update", func(t *testing.T) {
		mockService := new(MockUserService)
		expected := userResponse()
		expected.Age = 26
		userID := uuid.MustParse(expected.ID)
		mockService.On("UpdateUser", mock.Anything, userID, mock.AnythingOfType("*dto.UpdateUserRequest")).
			Return(expected, nil)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        26,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/user/"+expected.ID, body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.UserResponse
		decodeBody(t, resp, &got)
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, 26, got.Age)
		assert.Equal(t, "2024-03-14", got.RegistrationDate.String())

		mockService.AssertExpectations(t)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		mockService := new(MockUserService)
		unknownID := uuid.New()
		mockService.On("UpdateUser", mock.Anything, unknownID, mock.AnythingOfType("*dto.UpdateUserRequest")).
			Return(nil, entities.ErrUserNotFound)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        26,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/user/"+unknownID.String(), body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		mockService.AssertExpectations(t)
	})

	t.Run("duplicate login or email", func(t *testing.T) {
		mockService := new(MockUserService)
		userID := uuid.New()
		mockService.On("UpdateUser", mock.Anything, userID, mock.AnythingOfType("*dto.UpdateUserRequest")).
			Return(nil, entities.ErrUserConflict)

		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        26,
			"login":      "takenLogin",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/user/"+userID.String(), body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		mockService.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		mockService := new(MockUserService)
		app := newTestApp(mockService, &stubPinger{})

		body := map[string]any{
			"first_name": "Jack",
			"last_name":  "Dawson",
			"age":        100,
			"login":      "jAckDaWson23",
			"email":      "jack.dawson@gmail.com",
		}

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/user/"+uuid.New().String(), body))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		mockService.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("returns last known state", func(t *testing.T) {
		mockService := new(MockUserService)
		expected := userResponse()
		userID := uuid.MustParse(expected.ID)
		mockService.On("DeleteUser", mock.Anything, userID).Return(expected, nil)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/user/"+expected.ID, nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got dto.UserResponse
		decodeBody(t, resp, &got)
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, expected.Login, got.Login)
		assert.Equal(t, "2024-03-14", got.RegistrationDate.String())

		mockService.AssertExpectations(t)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		mockService := new(MockUserService)
		unknownID := uuid.New()
		mockService.On("DeleteUser", mock.Anything, unknownID).Return(nil, entities.ErrUserNotFound)

		app := newTestApp(mockService, &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/user/"+unknownID.String(), nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		mockService.AssertExpectations(t)
	})
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newTestApp(new(MockUserService), &stubPinger{})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/healthz", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("database unavailable", func(t *testing.T) {
		app := newTestApp(new(MockUserService), &stubPinger{err: errService})

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/healthz", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(new(MockUserService), &stubPinger{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/unknown", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
