package services

import (
	portsrepo "github.com/epsilon-fin/epsilon_backend/internal/core/ports/repositories"
	portssvc "github.com/epsilon-fin/epsilon_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Dependencies run one way: recurring depends on the ledger engine, the ledger
// engine depends on repositories only.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.UserRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo)
	container.Recurring = NewRecurringService(repos.RecurringRepo, repos.AccountRepo, container.Transaction)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.UserSvcFacade        = (*userService)(nil)
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
	_ portssvc.RecurringSvcFacade   = (*recurringService)(nil)
	_ portssvc.CategorySvcFacade    = (*categoryService)(nil)
)
