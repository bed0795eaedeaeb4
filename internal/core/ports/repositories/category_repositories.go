package repositories

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
)

// CategoryReader defines read operations for category data.
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)
	ListActiveCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)
	ExistsByNameForUser(ctx context.Context, userID string, name string) (bool, error)
}

// CategoryWriter defines write operations for category data.
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeactivateCategory(ctx context.Context, categoryID string, now time.Time) error
}

// CategoryRepositoryFacade combines category reads and writes.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
