package pgsql

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"time"

	"github.com/epsilon-fin/epsilon_backend/internal/apperrors"
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
	"github.com/epsilon-fin/epsilon_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, user_id, name, account_type, currency_code, balance, account_number, bank_name, is_active, created_at, updated_at`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.CurrencyCode,
		&m.Balance,
		&m.AccountNumber,
		&m.BankName,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func scanAccountRows(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// SaveAccount inserts a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.CurrencyCode,
		m.Balance,
		m.AccountNumber,
		m.BankName,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}
	return accountsMap, nil
}

// ExistsByAccountNumber reports whether an account with the number exists.
func (r *PgxAccountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1);`, accountNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return exists, nil
}

// ListAccountsByUser retrieves every account owned by the user.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	return scanAccountRows(rows)
}

// ListActiveAccountsByUser retrieves the user's active accounts.
func (r *PgxAccountRepository) ListActiveAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts for user %s: %w", userID, err)
	}
	return scanAccountRows(rows)
}

// ListAccountsByUserAndType retrieves the user's accounts of the given type.
func (r *PgxAccountRepository) ListAccountsByUserAndType(ctx context.Context, userID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND account_type = $2 ORDER BY created_at;`
	rows, err := r.pool.Query(ctx, query, userID, string(accountType))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by type for user %s: %w", userID, err)
	}
	return scanAccountRows(rows)
}

// SumBalancesByCurrency totals active-account balances per currency.
func (r *PgxAccountRepository) SumBalancesByCurrency(ctx context.Context, userID string) (map[domain.Currency]decimal.Decimal, error) {
	query := `
		SELECT currency_code, COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active = TRUE
		GROUP BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum balances for user %s: %w", userID, err)
	}
	defer rows.Close()

	summary := make(map[domain.Currency]decimal.Decimal)
	for rows.Next() {
		var currency string
		var total decimal.Decimal
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, fmt.Errorf("failed to scan balance summary row: %w", err)
		}
		summary[domain.Currency(currency)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance summary rows: %w", err)
	}
	return summary, nil
}

// UpdateAccount updates the editable details of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, bank_name = $3, updated_at = $4
		WHERE account_id = $1;
	`
	ct, err := r.pool.Exec(ctx, query, m.AccountID, m.Name, m.BankName, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateBalance overwrites the account balance.
func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE account_id = $1;`
	ct, err := r.pool.Exec(ctx, query, accountID, newBalance, now)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	query := `UPDATE accounts SET is_active = FALSE, updated_at = $2 WHERE account_id = $1;`
	ct, err := r.pool.Exec(ctx, query, accountID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the
// rows for update. The fixed ascending scan order keeps concurrent postings
// that touch overlapping accounts from deadlocking. Must be called within a
// transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, err
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}

	if len(accountsMap) != len(accountIDs) {
		var missing []string
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies balance deltas to multiple accounts within a transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, updated_at = $3
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			batch.Queue(query, accountID, delta, now)
			accountIDs = append(accountIDs, accountID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
