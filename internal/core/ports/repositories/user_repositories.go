package repositories

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeactivateUser(ctx context.Context, userID string, now time.Time) error
}

// UserRepositoryFacade combines user reads and writes.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
