package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/google/uuid"
)

// ErrCategoryNameTaken signals a duplicate category name for the same user.
var ErrCategoryNameTaken = fmt.Errorf("category name already exists for this user: %w", apperrors.ErrDuplicate)

type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.categoryRepo.ExistsByNameForUser(ctx, userID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name uniqueness: %w", err)
	}
	if exists {
		return nil, ErrCategoryNameTaken
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:  uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		ColorCode:   req.ColorCode,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("category_id", category.CategoryID))
		return nil, err
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		}
		return nil, err
	}
	if category.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("category %s not found", categoryID))
	}
	return category, nil
}

func (s *categoryService) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategoriesByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) ListActiveCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListActiveCategoriesByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list active categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category, err := s.GetCategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByNameForUser(ctx, userID, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check category name uniqueness: %w", err)
		}
		if exists {
			return nil, ErrCategoryNameTaken
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.ColorCode != nil {
		category.ColorCode = *req.ColorCode
	}
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeactivateCategory(ctx context.Context, userID string, categoryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetCategoryByID(ctx, userID, categoryID); err != nil {
		return err
	}
	if err := s.categoryRepo.DeactivateCategory(ctx, categoryID, time.Now()); err != nil {
		logger.Error("Failed to deactivate category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return err
	}
	logger.Info("Category deactivated", slog.String("category_id", categoryID))
	return nil
}
