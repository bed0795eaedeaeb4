package services

import (
	"context"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
)

// UserSvcFacade exposes user registration, authentication and profile operations.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// Authenticate verifies email+password and returns the active user.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID string) error
}
