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

const categoryColumns = `category_id, user_id, name, description, color_code, is_active, created_at, updated_at`

type PgxCategoryRepository struct {
	pool *pgxpool.Pool
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{pool: pool}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Description,
		&m.ColorCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func scanCategoryRows(rows pgx.Rows) ([]domain.Category, error) {
	defer rows.Close()
	var cats []models.Category
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		cats = append(cats, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return mapping.ToDomainCategorySlice(cats), nil
}

// SaveCategory inserts a new category row.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Description,
		m.ColorCode,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category %s already exists for user", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save category %s: %w", m.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category by ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`
	m, err := scanCategory(r.pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}
	d := mapping.ToDomainCategory(m)
	return &d, nil
}

// ListCategoriesByUser retrieves every category owned by the user.
func (r *PgxCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for user %s: %w", userID, err)
	}
	return scanCategoryRows(rows)
}

// ListActiveCategoriesByUser retrieves the user's active categories.
func (r *PgxCategoryRepository) ListActiveCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND is_active = TRUE ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active categories for user %s: %w", userID, err)
	}
	return scanCategoryRows(rows)
}

// ExistsByNameForUser reports whether the user already has a category with the name.
func (r *PgxCategoryRepository) ExistsByNameForUser(ctx context.Context, userID string, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE user_id = $1 AND name = $2);`, userID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name existence: %w", err)
	}
	return exists, nil
}

// UpdateCategory updates an existing category.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE categories
		SET name = $2, description = $3, color_code = $4, updated_at = $5
		WHERE category_id = $1;
	`
	ct, err := r.pool.Exec(ctx, query, m.CategoryID, m.Name, m.Description, m.ColorCode, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: category %s already exists for user", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to update category %s: %w", m.CategoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateCategory marks a category inactive.
func (r *PgxCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, now time.Time) error {
	query := `UPDATE categories SET is_active = FALSE, updated_at = $2 WHERE category_id = $1;`
	ct, err := r.pool.Exec(ctx, query, categoryID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate category %s: %w", categoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
