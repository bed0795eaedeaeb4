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
	"github.com/shopspring/decimal"
)

// Posting validation errors. Each wraps an apperrors category so the HTTP
// layer can map it to a status code without knowing the specific cause.
var (
	ErrAccountNotFound        = fmt.Errorf("account not found: %w", apperrors.ErrNotFound)
	ErrAccountInactive        = fmt.Errorf("account is inactive: %w", apperrors.ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("amount must be at least 0.01: %w", apperrors.ErrValidation)
	ErrUnsupportedCurrency    = fmt.Errorf("currency is not supported: %w", apperrors.ErrValidation)
	ErrCurrencyMismatch       = fmt.Errorf("transaction currency does not match account currency: %w", apperrors.ErrValidation)
	ErrMissingRequiredAccount = fmt.Errorf("transaction type requires an account reference: %w", apperrors.ErrValidation)
	ErrSameAccountTransfer    = fmt.Errorf("transfer source and destination must differ: %w", apperrors.ErrValidation)
	ErrInvalidTransactionType = fmt.Errorf("unsupported transaction type: %w", apperrors.ErrValidation)
	ErrInsufficientFunds      = fmt.Errorf("insufficient funds: %w", apperrors.ErrConflict)
)

var minPostingAmount = decimal.New(1, -2) // 0.01

type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransactionService creates the ledger engine service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
	}
}

// BuildPosting validates the draft and returns the transaction row plus the
// balance deltas it implies, keyed by account ID. Nothing is persisted here;
// the caller decides which atomic unit the posting joins.
func (s *transactionService) BuildPosting(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error) {
	if req.Amount.LessThan(minPostingAmount) {
		return nil, nil, ErrInvalidAmount
	}
	if !req.Currency.IsSupported() {
		return nil, nil, ErrUnsupportedCurrency
	}

	var accountIDs []string
	switch req.TransactionType {
	case domain.Income:
		if req.ToAccountID == nil || *req.ToAccountID == "" {
			return nil, nil, ErrMissingRequiredAccount
		}
		accountIDs = []string{*req.ToAccountID}
	case domain.Expense:
		if req.FromAccountID == nil || *req.FromAccountID == "" {
			return nil, nil, ErrMissingRequiredAccount
		}
		accountIDs = []string{*req.FromAccountID}
	case domain.Transfer:
		if req.FromAccountID == nil || *req.FromAccountID == "" || req.ToAccountID == nil || *req.ToAccountID == "" {
			return nil, nil, ErrMissingRequiredAccount
		}
		if *req.FromAccountID == *req.ToAccountID {
			return nil, nil, ErrSameAccountTransfer
		}
		accountIDs = []string{*req.FromAccountID, *req.ToAccountID}
	default:
		return nil, nil, ErrInvalidTransactionType
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounts for posting: %w", err)
	}
	for _, id := range accountIDs {
		acct, ok := accounts[id]
		if !ok || acct.UserID != userID {
			return nil, nil, ErrAccountNotFound
		}
		if !acct.IsActive {
			return nil, nil, ErrAccountInactive
		}
		if acct.Currency != req.Currency {
			return nil, nil, ErrCurrencyMismatch
		}
	}

	balanceChanges := make(map[string]decimal.Decimal, len(accountIDs))
	switch req.TransactionType {
	case domain.Income:
		balanceChanges[*req.ToAccountID] = req.Amount
	case domain.Expense:
		balanceChanges[*req.FromAccountID] = req.Amount.Neg()
	case domain.Transfer:
		balanceChanges[*req.FromAccountID] = req.Amount.Neg()
		balanceChanges[*req.ToAccountID] = req.Amount
	}

	// Pre-check sufficiency on the debited account. Only an EXPENSE may
	// overdraw a credit-bearing account; a TRANSFER always needs a funded
	// source. The repository re-checks against the locked balance inside the
	// atomic unit.
	for id, delta := range balanceChanges {
		if !delta.IsNegative() {
			continue
		}
		acct := accounts[id]
		if req.TransactionType == domain.Expense && acct.AccountType.IsCreditBearing() {
			continue
		}
		if acct.Balance.Add(delta).IsNegative() {
			return nil, nil, ErrInsufficientFunds
		}
	}

	now := time.Now()
	txnDate := now
	if req.TransactionDate != nil {
		txnDate = *req.TransactionDate
	}

	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		TransactionType: req.TransactionType,
		FromAccountID:   req.FromAccountID,
		ToAccountID:     req.ToAccountID,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		TransactionDate: txnDate,
		CreatedAt:       now,
	}
	return txn, balanceChanges, nil
}

// CreateTransaction validates and persists a posting: one appended transaction
// row plus its balance deltas, committed atomically.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, balanceChanges, err := s.BuildPosting(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, *txn, balanceChanges); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.TransactionType)),
		slog.String("amount", txn.Amount.String()))
	return txn, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.UserID != userID {
		// Return not-found rather than leaking another user's transaction.
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("transaction %s not found", transactionID))
	}
	return txn, nil
}

func (s *transactionService) ListTransactionsByAccount(ctx context.Context, userID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	acct, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions by account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *transactionService) ListTransactionsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if end.Before(start) {
		return nil, apperrors.NewAppError(400, "end date must not precede start date", apperrors.ErrValidation)
	}
	txns, err := s.txnRepo.FindTransactionsByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		logger.Error("Failed to list transactions by date range", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list transactions by date range: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *transactionService) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if limit <= 0 {
		limit = 10
	}
	txns, err := s.txnRepo.FindRecentTransactionsByUser(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to list recent transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *transactionService) SumExpensesByCategory(ctx context.Context, userID string, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if end.Before(start) {
		return decimal.Zero, apperrors.NewAppError(400, "end date must not precede start date", apperrors.ErrValidation)
	}
	total, err := s.txnRepo.SumExpensesByCategoryAndDateRange(ctx, categoryID, start, end)
	if err != nil {
		logger.Error("Failed to sum expenses by category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}
