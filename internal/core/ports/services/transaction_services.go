package services

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// PostingBuilder validates a transaction draft and turns it into a persistable
// posting: the transaction record plus the balance deltas it implies. It does
// not persist anything; callers choose the atomic unit the posting joins.
type PostingBuilder interface {
	BuildPosting(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, map[string]decimal.Decimal, error)
}

// TransactionSvcFacade exposes the ledger engine's posting and query operations.
type TransactionSvcFacade interface {
	PostingBuilder

	// CreateTransaction validates and posts a draft: exactly one transaction
	// row appended and one or two balances updated, atomically.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, userID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListTransactionsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error)
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	SumExpensesByCategory(ctx context.Context, userID string, categoryID string, start, end time.Time) (decimal.Decimal, error)
}
