package pgsql

import (
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto the shared pool. The
// transaction and recurring repositories reuse the account repository's
// posting support for row locking and batched balance updates.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	recurringRepo := newPgxRecurringRuleRepository(dbPool, accountRepo)
	userRepo := newPgxUserRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		RecurringRepo:   recurringRepo,
		UserRepo:        userRepo,
		CategoryRepo:    categoryRepo,
	}
}
