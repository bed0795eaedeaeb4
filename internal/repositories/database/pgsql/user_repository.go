package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
	"github.com/epsilon-fin/epsilon_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, first_name, last_name, email, password_hash, default_currency, is_active, created_at, updated_at`

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.PasswordHash,
		&m.DefaultCurrency,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// SaveUser inserts a new user row.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.UserID,
		m.FirstName,
		m.LastName,
		m.Email,
		m.PasswordHash,
		m.DefaultCurrency,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	m, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

// FindUserByEmail retrieves a user by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	m, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

// ExistsByEmail reports whether a user with the email exists.
func (r *PgxUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1);`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ListActiveUsers retrieves every active user.
func (r *PgxUserRepository) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return mapping.ToDomainUserSlice(users), nil
}

// UpdateUser updates an existing user's profile fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, default_currency = $5, updated_at = $6
		WHERE user_id = $1;
	`
	ct, err := r.pool.Exec(ctx, query, m.UserID, m.FirstName, m.LastName, m.Email, m.DefaultCurrency, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateUser marks a user inactive.
func (r *PgxUserRepository) DeactivateUser(ctx context.Context, userID string, now time.Time) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = $2 WHERE user_id = $1;`
	ct, err := r.pool.Exec(ctx, query, userID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate user %s: %w", userID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
