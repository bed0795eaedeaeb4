package repositories

import (
	"context"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ExistsByAccountNumber reports whether the 8-digit account number is already taken.
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)

	// ListAccountsByUser retrieves every account owned by the user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// ListActiveAccountsByUser retrieves the user's active accounts only.
	ListActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// ListAccountsByUserAndType retrieves the user's accounts of a given type.
	ListAccountsByUserAndType(ctx context.Context, userID string, accountType domain.AccountType) ([]domain.Account, error)

	// SumBalancesByCurrency totals the balances of the user's active accounts, grouped by currency.
	SumBalancesByCurrency(ctx context.Context, userID string) (map[domain.Currency]decimal.Decimal, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's editable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// UpdateBalance overwrites the account balance. Normal flows go through
	// the posting path; this is the low-level correction operation.
	UpdateBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, now time.Time) error
}

// AccountPostingSupport defines the operations the posting unit uses inside a
// database transaction.
type AccountPostingSupport interface {
	// FindAccountsByIDsForUpdate selects accounts in ascending accountID order
	// and locks the rows for update. Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas to multiple accounts
	// within the given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountPostingSupport
}
