package mapping

import (
	"github.com/epsilon-fin/epsilon_backend/internal/core/domain"
	"github.com/epsilon-fin/epsilon_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		UserID:        d.UserID,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		CurrencyCode:  string(d.Currency),
		Balance:       d.Balance,
		AccountNumber: d.AccountNumber,
		BankName:      d.BankName,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		UserID:        m.UserID,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		Currency:      domain.Currency(m.CurrencyCode),
		Balance:       m.Balance,
		AccountNumber: m.AccountNumber,
		BankName:      m.BankName,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
