package services

import (
	"context"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade exposes account operations to the HTTP layer and to other
// services. The acting userID scopes every call to its owner.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
	ListActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
	ListAccountsByType(ctx context.Context, userID string, accountType domain.AccountType) ([]domain.Account, error)
	GetBalanceSummary(ctx context.Context, userID string) (map[domain.Currency]decimal.Decimal, error)
	UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	UpdateBalance(ctx context.Context, userID string, accountID string, newBalance decimal.Decimal) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
	VerifyAccountOwnership(ctx context.Context, accountID string, userID string) (bool, error)
}
