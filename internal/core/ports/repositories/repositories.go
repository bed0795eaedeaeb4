package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This keeps the service container constructor's dependency list flat.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	RecurringRepo   RecurringRuleRepositoryFacade
	UserRepo        UserRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
}
