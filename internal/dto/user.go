package dto

import (
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
)

// RegisterUserRequest defines the data needed to register a new user.
type RegisterUserRequest struct {
	FirstName       string          `json:"firstName" binding:"required"`
	LastName        string          `json:"lastName" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	Password        string          `json:"password" binding:"required,min=8"`
	DefaultCurrency domain.Currency `json:"defaultCurrency" binding:"omitempty,oneof=USD INR EUR GBP JPY CAD AUD CHF"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token with the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateUserRequest defines the fields allowed for updating a user profile.
type UpdateUserRequest struct {
	FirstName       *string          `json:"firstName"`
	LastName        *string          `json:"lastName"`
	Email           *string          `json:"email" binding:"omitempty,email"`
	DefaultCurrency *domain.Currency `json:"defaultCurrency" binding:"omitempty,oneof=USD INR EUR GBP JPY CAD AUD CHF"`
}

// UserResponse defines the data returned for a user. The password hash is
// never part of any response.
type UserResponse struct {
	UserID          string          `json:"userID"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	DefaultCurrency domain.Currency `json:"defaultCurrency"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:          user.UserID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		DefaultCurrency: user.DefaultCurrency,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
