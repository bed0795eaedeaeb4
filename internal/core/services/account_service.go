package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"log/slog"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/epsilon-fin/epsilon_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account operation errors.
var (
	ErrAccountNumberTaken      = fmt.Errorf("account number is already in use: %w", apperrors.ErrDuplicate)
	ErrAccountNumberGeneration = fmt.Errorf("could not generate a unique account number: %w", apperrors.ErrInternal)
	ErrNegativeBalance         = fmt.Errorf("balance cannot go negative for this account type: %w", apperrors.ErrValidation)
	ErrAccountBalanceNonZero   = fmt.Errorf("account balance must be zero before deactivation: %w", apperrors.ErrConflict)
)

const accountNumberAttempts = 10

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserReader
	rand        *rand.Rand
}

// AccountServiceOption configures the account service.
type AccountServiceOption func(*accountService)

// WithAccountNumberRand supplies the random source used for account number
// generation. Tests inject a seeded source for deterministic numbers.
func WithAccountNumberRand(r *rand.Rand) AccountServiceOption {
	return func(s *accountService) {
		s.rand = r
	}
}

// NewAccountService creates the account store service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserReader, opts ...AccountServiceOption) portssvc.AccountSvcFacade {
	s := &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateAccountNumber produces an unused 8-digit, zero-padded number.
func (s *accountService) generateAccountNumber(ctx context.Context) (string, error) {
	for i := 0; i < accountNumberAttempts; i++ {
		candidate := fmt.Sprintf("%08d", s.rand.Intn(100000000))
		exists, err := s.accountRepo.ExistsByAccountNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrAccountNumberGeneration
}

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	currency := req.Currency
	if currency == "" {
		owner, err := s.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		currency = owner.DefaultCurrency
	}
	if !currency.IsSupported() {
		return nil, ErrUnsupportedCurrency
	}

	accountNumber := req.AccountNumber
	if accountNumber == "" {
		var err error
		accountNumber, err = s.generateAccountNumber(ctx)
		if err != nil {
			logger.Error("Account number generation failed", slog.String("error", err.Error()))
			return nil, err
		}
	} else {
		exists, err := s.accountRepo.ExistsByAccountNumber(ctx, accountNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to check account number uniqueness: %w", err)
		}
		if exists {
			return nil, ErrAccountNumberTaken
		}
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}
	if balance.IsNegative() && !req.AccountType.IsCreditBearing() {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Currency:      currency,
		Balance:       balance,
		AccountNumber: accountNumber,
		BankName:      req.BankName,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return account, nil
}

func (s *accountService) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListActiveAccountsByUser(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list active accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListAccountsByType(ctx context.Context, userID string, accountType domain.AccountType) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUserAndType(ctx, userID, accountType)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list accounts by type", slog.String("error", err.Error()), slog.String("account_type", string(accountType)))
		return nil, fmt.Errorf("failed to list accounts by type: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// GetBalanceSummary totals active-account balances per currency. Currencies
// are never converted or merged.
func (s *accountService) GetBalanceSummary(ctx context.Context, userID string) (map[domain.Currency]decimal.Decimal, error) {
	summary, err := s.accountRepo.SumBalancesByCurrency(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to build balance summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build balance summary: %w", err)
	}
	if summary == nil {
		return map[domain.Currency]decimal.Decimal{}, nil
	}
	return summary, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
	}
	account.UpdatedAt = time.Now()

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// UpdateBalance overwrites the persisted balance. Normal money movement goes
// through postings; this is the manual correction path.
func (s *accountService) UpdateBalance(ctx context.Context, userID string, accountID string, newBalance decimal.Decimal) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if newBalance.IsNegative() && !account.AccountType.IsCreditBearing() {
		return nil, ErrNegativeBalance
	}

	now := time.Now()
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance, now); err != nil {
		logger.Error("Failed to update balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now
	logger.Info("Account balance corrected", slog.String("account_id", accountID), slog.String("balance", newBalance.String()))
	return account, nil
}

// DeactivateAccount marks an account inactive. Only zero-balance accounts may
// be deactivated; history stays queryable afterwards.
func (s *accountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return ErrAccountBalanceNonZero
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) VerifyAccountOwnership(ctx context.Context, accountID string, userID string) (bool, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.UserID == userID, nil
}
