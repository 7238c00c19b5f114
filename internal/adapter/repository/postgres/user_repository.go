package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bank-suite/cards-service/internal/adapter/repository/repo_interfaces"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/bank-suite/cards-service/internal/logger"
	"github.com/lib/pq"
)

const userColumns = `id, phone_number, name, surname, password_hash, roles, created_at, updated_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{"phoneNumber": user.PhoneNumber})

	const query = `
INSERT INTO users (phone_number, name, surname, password_hash, roles)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.PhoneNumber,
		user.Name,
		user.Surname,
		user.PasswordHash,
		pq.Array(user.Roles),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: phone number already registered", domain.ErrValidation)
		}
		logger.Error("user repository create failed", err, logger.Fields{"phoneNumber": user.PhoneNumber})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.queryUser(ctx, query, id)
}

func (r *UserRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	return r.queryUser(ctx, query, phoneNumber)
}

func (r *UserRepository) List(ctx context.Context, filter repo_interfaces.UserFilter) ([]domain.User, int64, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if filter.PhoneNumber != "" {
		args = append(args, filter.PhoneNumber)
		where = append(where, fmt.Sprintf("phone_number = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	size := filter.Size
	if size <= 0 {
		size = 20
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}
	args = append(args, size, page*size)
	query := `SELECT ` + userColumns + ` FROM users` + clause +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
UPDATE users
SET name = $2,
    surname = $3,
    password_hash = $4,
    roles = $5,
    updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Surname,
		user.PasswordHash,
		pq.Array(user.Roles),
	).Scan(&user.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, domain.ErrRecordNotFound
		}
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) queryUser(ctx context.Context, query string, args ...any) (domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&user.Surname,
		&user.PasswordHash,
		pq.Array(&user.Roles),
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
