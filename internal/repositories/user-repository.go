package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cmms-system/internal/entities"
	apperrors "cmms-system/pkg/errors"
)

const userTableRepo = "users"
const userSelectFieldsRepo = "id, username, email, password_hash, role, is_active, last_login, created_at, updated_at"

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, limit uint64, offset uint64) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, id uint64) error
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
	GetActiveUsersByRole(ctx context.Context, role string) ([]entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, limit uint64, offset uint64) ([]entities.User, uint64, error) {
	var totalCount uint64
	countQuery := fmt.Sprintf("SELECT COUNT(id) FROM %s", userTableRepo)
	if err := r.storage.QueryRow(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if totalCount == 0 {
		return []entities.User{}, 0, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, userSelectFieldsRepo, userTableRepo)

	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, totalCount, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userSelectFieldsRepo, userTableRepo)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(email) = LOWER($1)", userSelectFieldsRepo, userTableRepo)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, userTableRepo, userSelectFieldsRepo)

	created, err := scanUser(r.storage.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, apperrors.ErrDuplicateKey
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = $1, email = $2, password_hash = $3, role = $4, is_active = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
	`, userTableRepo)

	result, err := r.storage.Exec(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive, user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateKey
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", userTableRepo)

	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewBadRequestError("Нельзя удалить пользователя: за ним числятся записи обслуживания или отказов")
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET last_login = $1 WHERE id = $2", userTableRepo)
	_, err := r.storage.Exec(ctx, query, at, id)
	return err
}

// GetActiveUsersByRole возвращает активных пользователей с заданной ролью.
// Используется при рассылке уведомлений.
func (r *UserRepository) GetActiveUsersByRole(ctx context.Context, role string) ([]entities.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE role = $1 AND is_active = TRUE
		ORDER BY id
	`, userSelectFieldsRepo, userTableRepo)

	rows, err := r.storage.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
