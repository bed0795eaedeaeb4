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
	"github.com/epsilon-fin/epsilon_backend/internal/utils"
	"github.com/google/uuid"
)

// User operation errors.
var (
	ErrEmailTaken         = fmt.Errorf("email is already registered: %w", apperrors.ErrDuplicate)
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	defaultCurrency := req.DefaultCurrency
	if defaultCurrency == "" {
		defaultCurrency = domain.USD
	}

	now := time.Now()
	user := domain.User{
		UserID:          uuid.NewString(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PasswordHash:    passwordHash,
		DefaultCurrency: defaultCurrency,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// Authenticate verifies the credentials against the stored bcrypt hash.
// Missing users and wrong passwords return the same error.
func (s *userService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user by email", slog.String("error", err.Error()))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find user by ID", slog.String("error", err.Error()), slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find user by email", slog.String("error", err.Error()))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.DefaultCurrency != nil {
		if !req.DefaultCurrency.IsSupported() {
			return nil, ErrUnsupportedCurrency
		}
		user.DefaultCurrency = *req.DefaultCurrency
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) DeactivateUser(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.userRepo.DeactivateUser(ctx, userID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate user", slog.String("error", err.Error()), slog.String("user_id", userID))
		}
		return err
	}
	logger.Info("User deactivated", slog.String("user_id", userID))
	return nil
}
