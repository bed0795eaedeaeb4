package dto

import (
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ColorCode   string `json:"colorCode" binding:"omitempty,hexcolor"`
}

// UpdateCategoryRequest defines the fields allowed for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ColorCode   *string `json:"colorCode" binding:"omitempty,hexcolor"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID  string    `json:"categoryID"`
	UserID      string    `json:"userID"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ColorCode   string    `json:"colorCode,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:  cat.CategoryID,
		UserID:      cat.UserID,
		Name:        cat.Name,
		Description: cat.Description,
		ColorCode:   cat.ColorCode,
		IsActive:    cat.IsActive,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of categories to response DTOs.
func ToCategoryResponses(cats []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(cats))
	for i := range cats {
		res[i] = ToCategoryResponse(&cats[i])
	}
	return res
}
