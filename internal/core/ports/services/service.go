package services

// ServiceContainer holds instances of all the application services.
// Handlers and the scheduler receive this rather than individual services.
type ServiceContainer struct {
	User        UserSvcFacade
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	Recurring   RecurringSvcFacade
	Category    CategorySvcFacade
}
