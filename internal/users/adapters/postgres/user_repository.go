// Package postgres предоставляет реализацию репозитория пользователей на Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"usermgmt/internal/users/domain/entities"
	"usermgmt/internal/users/ports/repositories"
	"usermgmt/pkg/logger"
)

// uniqueViolationCode - код ошибки Postgres для нарушения уникальности.
const uniqueViolationCode = "23505"

// PgxPoolInterface покрывает используемые методы pgxpool.Pool,
// чтобы в тестах пул можно было заменить на pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
}

// orderByColumns - допустимые колонки сортировки списка. Значение OrderBy
// подставляется в ORDER BY по этой таблице, а не из пользовательского ввода.
var orderByColumns = map[string]string{
	"id":                "id",
	"first_name":        "first_name",
	"last_name":         "last_name",
	"age":               "age",
	"login":             "login",
	"email":             "email",
	"registration_date": "registration_date",
}

// UserRepository реализует интерфейс repositories.UserRepository.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый репозиторий пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

// Insert сохраняет новую запись пользователя.
func (r *UserRepository) Insert(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Insert"))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, age, login, email, registration_date)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.FirstName, user.LastName, user.Age, user.Login, user.Email, user.RegistrationDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "unique constraint violated on insert", zap.String("id", user.ID.String()))
			return entities.ErrUserConflict
		}
		log.Error(ctx, "error inserting user", zap.Error(err))
		return fmt.Errorf("error inserting user: %w", err)
	}

	return nil
}

// FindByID возвращает пользователя по id или (nil, nil), если записи нет.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindByID"))

	var user entities.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, age, login, email, registration_date
         FROM users
         WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Age, &user.Login, &user.Email, &user.RegistrationDate)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found", zap.String("id", id.String()))
			return nil, nil
		}
		log.Error(ctx, "error querying user by id", zap.Error(err))
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return &user, nil
}

// FindAll возвращает страницу пользователей, упорядоченную на стороне базы.
func (r *UserRepository) FindAll(ctx context.Context, params repositories.ListParams) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "FindAll"))

	column, ok := orderByColumns[params.OrderBy]
	if !ok {
		return nil, fmt.Errorf("unknown order by column: %s", params.OrderBy)
	}

	direction := "ASC"
	if params.Sort == "DESC" {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, age, login, email, registration_date
         FROM users
         ORDER BY %s %s
         LIMIT $1 OFFSET $2`,
		column, direction,
	)

	rows, err := r.pool.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		log.Error(ctx, "error listing users", zap.Error(err))
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		var user entities.User
		err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Age, &user.Login, &user.Email, &user.RegistrationDate)
		if err != nil {
			log.Error(ctx, "error scanning user row", zap.Error(err))
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating user rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Update заменяет все поля записи, кроме id и registration_date.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Update"))

	result, err := r.pool.Exec(ctx,
		`UPDATE users
         SET first_name = $2, last_name = $3, age = $4, login = $5, email = $6
         WHERE id = $1`,
		user.ID, user.FirstName, user.LastName, user.Age, user.Login, user.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug(ctx, "unique constraint violated on update", zap.String("id", user.ID.String()))
			return entities.ErrUserConflict
		}
		log.Error(ctx, "error updating user", zap.Error(err))
		return fmt.Errorf("error updating user: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user not found for update", zap.String("id", user.ID.String()))
		return entities.ErrUserNotFound
	}

	return nil
}

// Delete удаляет запись по id. Удаление отсутствующей записи не ошибка:
// существование проверяет вызывающая сторона.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "user already absent on delete", zap.String("id", id.String()))
	}

	return nil
}

// isUniqueViolation распознает нарушение ограничения уникальности.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
