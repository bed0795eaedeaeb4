package repositories

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for posted transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a posted transaction by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves a page of transactions touching the
	// account, newest first, using token-based cursor pagination.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindTransactionsByUserAndDateRange retrieves the user's transactions
	// whose transaction date falls within [start, end].
	FindTransactionsByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error)

	// FindRecentTransactionsByUser retrieves the user's most recent transactions.
	FindRecentTransactionsByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)

	// SumExpensesByCategoryAndDateRange totals EXPENSE amounts for a category
	// within the date range.
	SumExpensesByCategoryAndDateRange(ctx context.Context, categoryID string, start, end time.Time) (decimal.Decimal, error)
}

// TransactionWriter persists postings.
type TransactionWriter interface {
	// SaveTransaction appends the transaction row and applies the balance
	// deltas as one atomic unit. Touched accounts are locked in ascending ID
	// order; a delta that would drive a non-credit account negative fails the
	// whole unit.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error
}

// TransactionRepositoryFacade combines transaction reads and writes.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
