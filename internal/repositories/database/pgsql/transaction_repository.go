package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
	"github.com/epsilon-fin/epsilon_backend/internal/utils/mapping"
	"github.com/epsilon-fin/epsilon_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, user_id, amount, currency_code, transaction_type, from_account_id, to_account_id, category_id, description, transaction_date, created_at`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountPostingSupport
}

func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountPostingSupport) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// applyPostingInTx locks the touched accounts, re-checks sufficiency against
// the locked balances, inserts the transaction row and applies the deltas.
// Shared by the direct posting path and the recurring run path.
func applyPostingInTx(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountPostingSupport, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewAppError(500, "failed to lock accounts for posting", err)
	}

	// The service validated against a snapshot; the locked balance is the
	// authoritative one. The credit overdraft allowance applies to expenses
	// only, never to the source of a transfer.
	for accID, delta := range balanceChanges {
		if !delta.IsNegative() {
			continue
		}
		locked := lockedAccounts[accID]
		if txn.TransactionType == domain.Expense && locked.AccountType.IsCreditBearing() {
			continue
		}
		if locked.Balance.Add(delta).IsNegative() {
			return fmt.Errorf("%w: insufficient funds in account %s", apperrors.ErrConflict, accID)
		}
	}

	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	if _, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.Amount,
		m.CurrencyCode,
		m.TransactionType,
		m.FromAccountID,
		m.ToAccountID,
		m.CategoryID,
		m.Description,
		m.TransactionDate,
		m.CreatedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}
	return nil
}

// SaveTransaction appends the transaction row and applies its balance deltas
// as one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := applyPostingInTx(ctx, tx, r.accountRepo, txn, balanceChanges); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Amount,
		&m.CurrencyCode,
		&m.TransactionType,
		&m.FromAccountID,
		&m.ToAccountID,
		&m.CategoryID,
		&m.Description,
		&m.TransactionDate,
		&m.CreatedAt,
	)
	return m, err
}

func scanTransactionRows(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var txns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(txns), nil
}

// FindTransactionByID retrieves a posted transaction by its identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByAccount retrieves a page of transactions touching the
// account, newest first, with keyset pagination over (transaction_date, created_at).
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []interface{}{accountID, limit + 1}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (from_account_id = $1 OR to_account_id = $1)`

	if nextToken != nil && *nextToken != "" {
		txnDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (transaction_date, created_at) < ($3, $4)`
		args = append(args, txnDate, createdAt)
	}
	query += `
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	txns, err := scanTransactionRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &t
	}
	return txns, token, nil
}

// FindTransactionsByUserAndDateRange retrieves the user's transactions inside [start, end].
func (r *PgxTransactionRepository) FindTransactionsByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by date range for user %s: %w", userID, err)
	}
	return scanTransactionRows(rows)
}

// FindRecentTransactionsByUser retrieves the user's most recent transactions.
func (r *PgxTransactionRepository) FindRecentTransactionsByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions for user %s: %w", userID, err)
	}
	return scanTransactionRows(rows)
}

// SumExpensesByCategoryAndDateRange totals EXPENSE amounts for a category within the range.
func (r *PgxTransactionRepository) SumExpensesByCategoryAndDateRange(ctx context.Context, categoryID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = $1 AND transaction_type = 'EXPENSE' AND transaction_date BETWEEN $2 AND $3;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, categoryID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses for category %s: %w", categoryID, err)
	}
	return total, nil
}
