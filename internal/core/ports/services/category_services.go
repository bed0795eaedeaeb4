package services

import (
	"context"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
)

// CategorySvcFacade exposes category operations scoped to their owner.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error)
	ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)
	ListActiveCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, userID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeactivateCategory(ctx context.Context, userID string, categoryID string) error
}
